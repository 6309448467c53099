package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/healthz -timeout=2m
func main() {
	url := flag.String("url", "http://localhost:8080/healthz", "the health endpoint of the service")
	interval := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	timeout := flag.Duration("timeout", 0, "give up after this time, 0 means never")
	flag.Parse()

	client := &http.Client{Timeout: *interval}
	start := time.Now()
	for {
		res, err := client.Get(*url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println("service is available:", res.Status)
				return
			}
			fmt.Println("service not ready:", res.Status)
		} else {
			fmt.Println(err)
		}
		waited := time.Since(start).Round(time.Second)
		if *timeout > 0 && waited >= *timeout {
			fmt.Printf("Giving up after %s\n", waited)
			os.Exit(1)
		}
		fmt.Printf("Waiting %s\n", waited)
		time.Sleep(*interval)
	}
}
