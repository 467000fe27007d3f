// Prompts for the portfolio contact form on the terminal and checks it the
// way the page did. Nothing is delivered; accepted messages are logged.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/olivierh59500/constellation/internal/contact"
)

func main() {
	if err := prompt(os.Stdin, os.Stdout, time.Now); err != nil {
		log.Fatal(err)
	}
}

// prompt reads forms from r until EOF. A rejected form lists the failing
// fields and is asked for again.
func prompt(r io.Reader, w io.Writer, now func() time.Time) error {
	in := bufio.NewScanner(r)
	var banner contact.Banner

	ask := func(label string) (string, bool) {
		fmt.Fprintf(w, "%s: ", label)
		if !in.Scan() {
			return "", false
		}
		return in.Text(), true
	}

	for {
		if banner.Visible(now()) {
			fmt.Fprintln(w, "Thank you! Your message has been sent.")
		}

		var s contact.Submission
		var ok bool
		if s.Name, ok = ask("Name"); !ok {
			return in.Err()
		}
		if s.Email, ok = ask("Email"); !ok {
			return in.Err()
		}
		if s.Message, ok = ask("Message"); !ok {
			return in.Err()
		}

		s, err := contact.Validate(s)
		var fe contact.FieldErrors
		switch {
		case errors.As(err, &fe):
			fields := make([]string, 0, len(fe))
			for f := range fe {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				fmt.Fprintf(w, "  %s: %s\n", f, fe[f])
			}
			continue
		case err != nil:
			return err
		}

		log.Printf("contact from %s <%s>: %d bytes", s.Name, s.Email, len(s.Message))
		banner.Show(now())
	}
}
