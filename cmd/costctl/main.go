// Command costctl administers the cost tracking database and prints project
// reports.
package main

func main() {
	Execute()
}
