// Command effort is a personal task planner with date-bucketed views.
package main

import "github.com/groverrichardson/effort-flow-planner-sub001/cmd"

func main() {
	cmd.Execute()
}
