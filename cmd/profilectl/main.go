// Command profilectl creates, imports and validates user profiles.
package main

func main() {
	Execute()
}
