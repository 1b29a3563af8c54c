package k8s

import "k8s.io/client-go/kubernetes"

// newTestClient wraps an existing clientset, bypassing kubeconfig loading
func newTestClient(clientset kubernetes.Interface) *Client {
	return &Client{
		clientset: clientset,
	}
}
