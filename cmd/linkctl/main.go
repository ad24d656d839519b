// Command linkctl inspects and repairs account links and stored grants
// directly against the configured storage backend.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
