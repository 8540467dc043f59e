/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Seann-Moser/pwmhat/cmd"

func main() {
	cmd.Execute()
}
