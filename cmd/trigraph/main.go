// Command trigraph is an interactive REPL over a graphengine.Engine,
// generalising the teacher's "new/load/use/unload" multi-graph session
// model from one loaded probabilistic graph to many named graphs held by
// a single backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	graphengine "github.com/ritamzico/trigraph"
)

const helpText = `trigraph interactive REPL

Commands:
  ADDEDGE graph s p o      Store a triple
  REMOVEEDGE graph s p o   Remove a triple
  DELETE graph             Drop a graph entirely
  DUMP graph               Print a graph's triples as JSON
  QUERY graph <text>       Run a MATCH [WHERE] RETURN query
  help                     Show this help message
  exit / quit              Exit the REPL

Query example:
  QUERY social MATCH (a)-[r:knows]->(b) WHERE a = 'alice' RETURN a, r, b
`

func run(dbPath string) error {
	var eng *graphengine.Engine
	var err error
	if dbPath == "" {
		eng, err = graphengine.New()
	} else {
		eng, err = graphengine.Open(dbPath)
	}
	if err != nil {
		return fmt.Errorf("opening engine: %w", err)
	}
	defer eng.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("trigraph — hexastore-indexed triple store")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Print(helpText)
		default:
			result, err := eng.Command(ctx, fields[0], fields[1:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			printResult(result)
		}
	}
	return nil
}

func printResult(result any) {
	switch v := result.(type) {
	case []byte:
		fmt.Println(string(v))
	case bool:
		fmt.Println(v)
	default:
		fmt.Printf("%v\n", v)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "trigraph",
		Usage: "interactive REPL over a hexastore-indexed triple store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to a badger database directory (empty: in-memory)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd.String("db"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
