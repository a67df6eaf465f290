// Command diashow plays a folder hierarchy of rated photos as a timed
// terminal slideshow.
package main

import "github.com/papapumpkin/diashow/cmd"

func main() {
	cmd.Execute()
}
