// mockrules CLI - inspect and validate interception rules for an HTTP/WebSocket proxy
package main

import "github.com/getmockd/mockrules/pkg/cli"

func main() {
	cli.Execute()
}
