/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/SvenDH/chess-nonogram/cmd"

func main() {
	cmd.Execute()
}
