package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"bitbraille/internal/braille"
	"bitbraille/internal/printer"
	"bitbraille/internal/render"
)

var showMatrix bool

var showCmd = &cobra.Command{
	Use:   "show TEXT",
	Short: "Print the braille cells for some text",
	Long: `Print the braille cell for each letter of TEXT, with the raised dots and
the LEDs of the matrix they light.  Characters other than A-Z are skipped.

Examples:
  bitbraille show hello
  bitbraille show b --matrix`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showMatrix, "matrix", "m", false, "Draw the LED matrix for each letter")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	console := render.NewConsole(out)
	shown := 0
	for _, r := range args[0] {
		l, err := braille.Parse(string(r))
		if err != nil {
			if r != ' ' {
				printer.Warning(cmd.ErrOrStderr(), "skipping %q\n", r)
			}
			continue
		}
		p := braille.Encode(l)
		leds := braille.Positions(p)
		printer.Info(out, "%s %s dots %s leds %v\n", l, p, dots(p), leds.Indices())
		if showMatrix {
			console.RenderBraille(leds)
		}
		shown++
	}
	if shown == 0 {
		return printer.Error(cmd.ErrOrStderr(), "Nothing to show", fmt.Sprintf("%q has no letters between A and Z", args[0]))
	}
	return nil
}

// dots lists the raised dots in standard numbering, e.g. "125".
func dots(p braille.Pattern) string {
	var b []byte
	for i, raised := range p {
		if raised {
			b = append(b, byte('1'+i))
		}
	}
	return string(b)
}
