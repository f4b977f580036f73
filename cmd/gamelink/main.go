// gamelink connects LAN-only multiplayer games across routed networks by
// relaying broadcast discovery traffic to configured peers.
package main

import "os"

func main() {
	os.Exit(run())
}
