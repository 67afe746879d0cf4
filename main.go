/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Aarti-panchal01/Khoj/cmd"

func main() {
	cmd.Execute()
}
