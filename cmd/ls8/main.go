// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var (
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Trace each instruction to the log",
	}
	AsmFlag = &cli.BoolFlag{
		Name:    "asm",
		Aliases: []string{"a"},
		Usage:   "Assemble the program from mnemonics (default for .asm files)",
	}
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "PRN output file",
		Value:   "-",
	}
	LangFlag = &cli.StringFlag{
		Name:  "lang",
		Usage: "Language for formatted messages, overriding the host locale (fixed error text keeps the host locale)",
	}
)

// parse loads a program listing from a file.
func parse(ctx *cli.Context, path string, emu *emulator.Emulator) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if ctx.Bool(AsmFlag.Name) || strings.EqualFold(filepath.Ext(path), ".asm") {
		asm := &cpu.Assembler{Verbose: ctx.Bool(VerboseFlag.Name)}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		return asm.Parse(inf)
	}

	ld := &cpu.Loader{Verbose: ctx.Bool(VerboseFlag.Name)}
	return ld.Parse(inf)
}

func run(ctx *cli.Context) (err error) {
	if ctx.NArg() != 1 {
		_ = cli.ShowAppHelp(ctx)
		return cli.Exit(fmt.Sprintf("usage: %v <filename>", ctx.App.Name), 1)
	}

	if lang := ctx.String(LangFlag.Name); len(lang) != 0 {
		translate.SetLocales(lang)
	}

	path := ctx.Args().First()

	emu := emulator.NewEmulator()
	emu.Verbose = ctx.Bool(VerboseFlag.Name)

	emu.Program, err = parse(ctx, path, emu)
	if err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}

	output := ctx.String(OutputFlag.Name)
	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			return err
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}

	err = emu.Run()
	if err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}

	if emu.Verbose {
		log.Printf("%v: halted after %d instructions", path, emu.Cpu.Ticks)
	}

	return
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ls8"
	app.Usage = "LS-8 byte-code emulator"
	app.ArgsUsage = "<filename>"
	app.Description = "Loads an LS-8 program, as binary literals or assembler mnemonics, and runs it until HLT."
	app.Flags = []cli.Flag{
		VerboseFlag,
		AsmFlag,
		OutputFlag,
		LangFlag,
	}
	app.Action = run

	return app
}

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		log.Printf("%v: %v", app.Name, err)
		os.Exit(1)
	}
}
