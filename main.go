/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/manraj-ms/accounts-api/cmd"

func main() {
	cmd.Execute()
}
