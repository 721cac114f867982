// Command isbncheck reports whether each argument is a valid ISBN-10 or
// ISBN-13. With no arguments it reads one candidate per line from stdin.
// The exit status is 1 if any candidate is invalid.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"mediatracker/internal/isbn"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("isbncheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	canonical := fs.Bool("13", false, "print the ISBN-13 form of valid input")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	candidates := fs.Args()
	if len(candidates) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				candidates = append(candidates, line)
			}
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintln(stderr, "read stdin:", err)
			return 2
		}
	}

	status := 0
	for _, c := range candidates {
		if !isbn.IsValid(c) {
			fmt.Fprintf(stdout, "%s\tinvalid\n", c)
			status = 1
			continue
		}
		if *canonical {
			code, _ := isbn.ToISBN13(c)
			fmt.Fprintf(stdout, "%s\tvalid\t%s\n", c, code)
			continue
		}
		fmt.Fprintf(stdout, "%s\tvalid\n", c)
	}
	return status
}
