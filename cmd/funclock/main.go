package main

import "github.com/joho/godotenv"

func main() {
	// A .env file may set FUNCLOCK_UNIT, the unit applied to directives
	// that do not name one.
	_ = godotenv.Load()

	execute()
}
