// Command diningsim runs the dining philosophers simulation.
package main

import "github.com/sarchlab/diningsim/diningsim/cmd"

func main() {
	cmd.Execute()
}
