// Command healthcheck probes the local API health endpoint and exits 0 when
// it answers. Intended as a container HEALTHCHECK for scratch images that
// carry no shell or curl.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

func main() {
	client := &http.Client{Timeout: 2 * time.Second}

	url := fmt.Sprintf("http://%s/api/v1/health", healthAddr(os.Getenv("RELEASEDASH_LISTEN_ADDR")))
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "healthcheck: unexpected status", resp.Status)
		os.Exit(1)
	}
}

// healthAddr resolves the address to probe. The server may bind 0.0.0.0
// inside a container, but the probe runs in the same network namespace, so
// loopback is always the right target.
func healthAddr(raw string) string {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
