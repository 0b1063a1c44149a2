// Command wisard trains, evaluates and inspects WiSARD weightless classifiers.
//
// Examples:
//
//	wisard train --data train.csv --model out/
//	wisard classify --data test.csv --model out/
//	wisard inspect --model out/ --label 7
//	wisard mnist --dir /tmp/mnist/ --model mnist/
//	wisard bench
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
