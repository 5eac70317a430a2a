// vtop assembles a top-level Verilog module out of parsed module
// headers. Modules are parsed into a library, instantiated, and wired
// to top-level signals; the generated output embeds a snapshot of the
// whole design so a project can be reloaded from the generated file
// alone.
package main

func main() {
	execute()
}
