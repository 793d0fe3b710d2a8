// Package uai contains a driver for using the engine under the UAI protocol,
// the Ataxx adaptation of UCI.
//
// See: https://github.com/kz04px/cuteataxx (rules and protocol notes).
package uai

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/quax/pkg/board"
	"github.com/herohde/quax/pkg/board/fen"
	"github.com/herohde/quax/pkg/datagen"
	"github.com/herohde/quax/pkg/engine"
	"github.com/herohde/quax/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "uai"

// Driver implements a UAI driver for an engine. It is activated if sent
// "uai". Commands are processed one at a time; a search blocks the loop
// until its budget is exhausted, per the protocol's synchronous model.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UAI protocol initialized")

	// "uai" was already consumed to select the protocol. Identify, list
	// options, then acknowledge with "uaiok".

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- fmt.Sprintf("option name Hash type spin default %v min 1 max 65536", search.DefaultHashMB)
	for _, s := range search.Specs() {
		if s.Float {
			d.out <- fmt.Sprintf("option name %v type string default %v min %v max %v step %v",
				s.Name, s.Default, s.Min, s.Max, s.Step)
		} else {
			d.out <- fmt.Sprintf("option name %v type spin default %v min %v max %v step %v",
				s.Name, int(s.Default), int(s.Min), int(s.Max), s.Step)
		}
	}
	d.out <- "uaiok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				d.out <- "readyok"

			case "uainewgame":
				d.e.NewGame(ctx)

			case "position":
				// position [startpos | fen <FEN>] [moves <move> ...]

				if err := d.position(ctx, args); err != nil {
					logw.Errorf(ctx, "Invalid position: %v: %v", line, err)
				}

			case "setoption":
				// setoption name <name> value <value>

				name, value := parseNameValue(args)
				if err := d.e.SetOption(ctx, name, value); err != nil {
					logw.Errorf(ctx, "Invalid option: %v: %v", line, err)
				}

			case "go":
				limits, err := parseGo(args, d.e.Board().Turn())
				if err != nil {
					logw.Errorf(ctx, "Invalid go command: %v: %v", line, err)
					break
				}

				move, _ := d.e.Search(ctx, limits, func(pv search.PV) {
					d.out <- pv.String()
				})
				d.out <- fmt.Sprintf("bestmove %v", move)

			case "bench":
				depth := engine.DefaultBenchDepth
				if len(args) > 0 {
					if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
						depth = n
					}
				}

				result, err := d.e.Bench(ctx, depth)
				if err != nil {
					logw.Errorf(ctx, "Bench failed: %v", err)
					break
				}
				d.out <- fmt.Sprintf("bench depth %v nodes %v nps %v time %v",
					result.Depth, result.Nodes, result.NPS(), result.Time.Milliseconds())

			case "perft", "perftsplit":
				if len(args) == 0 {
					logw.Errorf(ctx, "Missing depth: %v", line)
					break
				}
				depth, err := strconv.Atoi(args[0])
				if err != nil || depth < 1 {
					logw.Errorf(ctx, "Invalid depth: %v", line)
					break
				}

				b := d.e.Board().Fork()
				if strings.ToLower(cmd) == "perftsplit" {
					var total uint64
					for m, n := range board.PerftSplit(b, depth) {
						d.out <- fmt.Sprintf("%v: %v", m, n)
						total += n
					}
					d.out <- fmt.Sprintf("total %v", total)
					break
				}

				start := time.Now()
				nodes := board.Perft(b, depth)
				d.out <- fmt.Sprintf("perft depth %v nodes %v time %v", depth, nodes, time.Since(start).Milliseconds())

			case "d", "display", "print", "show":
				d.out <- d.e.Board().Print()
				d.out <- d.e.Position()

			case "eval", "evaluate", "evaluation":
				d.out <- fmt.Sprintf("eval %v cp", d.e.Evaluate())

			case "gameresult":
				d.out <- d.e.Result().String()

			case "datagen":
				if err := datagen.Run(ctx, d.e.Params(), d.e.Net(), datagen.Options{}); err != nil {
					logw.Errorf(ctx, "Datagen failed: %v", err)
				}

			case "genopenings":
				if err := datagen.GenerateOpenings(ctx, d.e.Params(), d.e.Net(), "openings.txt", 8, 3000); err != nil {
					logw.Errorf(ctx, "Opening generation failed: %v", err)
				}

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) position(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("empty position")
	}

	position := fen.Initial
	rest := args[1:]
	if args[0] == "fen" {
		var fields []string
		for len(rest) > 0 && rest[0] != "moves" {
			fields = append(fields, rest[0])
			rest = rest[1:]
		}
		position = strings.Join(fields, " ")
	}

	if err := d.e.Reset(ctx, position); err != nil {
		return err
	}

	move := false
	for _, arg := range rest {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			return fmt.Errorf("invalid move '%v': %v", arg, err)
		}
	}
	return nil
}

// parseGo derives search limits from the go arguments, selecting the
// side-appropriate clock and increment. "rtime"/"wtime" belong to red,
// "btime" to blue.
func parseGo(args []string, turn board.Color) (search.Limits, error) {
	var limits search.Limits

	get := func(i int) (int64, error) {
		if i >= len(args) {
			return 0, fmt.Errorf("missing argument for %v", args[i-1])
		}
		return strconv.ParseInt(args[i], 10, 64)
	}

	for i := 0; i < len(args); i++ {
		var err error
		var n int64

		switch args[i] {
		case "depth":
			if n, err = get(i + 1); err == nil {
				limits.Depth = lang.Some(int(n))
			}
			i++
		case "movetime":
			if n, err = get(i + 1); err == nil {
				limits.MoveTime = lang.Some(time.Duration(n) * time.Millisecond)
			}
			i++
		case "nodes":
			if n, err = get(i + 1); err == nil {
				limits.SoftNodes = lang.Some(uint64(n))
				limits.HardNodes = lang.Some(uint64(n))
			}
			i++
		case "rtime", "wtime":
			if n, err = get(i + 1); err == nil && turn == board.Red {
				limits.Remaining = lang.Some(time.Duration(n) * time.Millisecond)
			}
			i++
		case "btime":
			if n, err = get(i + 1); err == nil && turn == board.Blue {
				limits.Remaining = lang.Some(time.Duration(n) * time.Millisecond)
			}
			i++
		case "rinc", "winc":
			if n, err = get(i + 1); err == nil && turn == board.Red {
				limits.Increment = time.Duration(n) * time.Millisecond
			}
			i++
		case "binc":
			if n, err = get(i + 1); err == nil && turn == board.Blue {
				limits.Increment = time.Duration(n) * time.Millisecond
			}
			i++
		default:
			// silently ignore anything not handled.
		}

		if err != nil {
			return search.Limits{}, err
		}
	}
	return limits, nil
}

// parseNameValue splits "name <name> value <value>" allowing spaces in both.
func parseNameValue(args []string) (string, string) {
	var name, value []string
	target := &name

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, arg)
		}
	}
	return strings.Join(name, " "), strings.Join(value, " ")
}
