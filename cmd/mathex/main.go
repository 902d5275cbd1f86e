// Command mathex evaluates mathematical expressions from the command
// line and provides a small interactive shell for experimenting with
// the expression language.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandrolain/mathex"
	"github.com/sandrolain/mathex/pkg/types"
	"golang.org/x/text/language"
)

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "mathex",
	Short:         "Parse and evaluate mathematical expressions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single expression",
	Long: `Evaluate a single expression, optionally binding parameters:

  mathex eval "3 + 4 * 2"
  mathex eval "x + y" --arg x=2 --arg y=3.5
  mathex eval "x = 10" --arg x=8 --int-tolerance 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		bindings, err := parseBindings(viper.GetStringSlice("arg"))
		if err != nil {
			return err
		}
		result, err := evaluate(cmd.Context(), svc, args[0], bindings)
		if err != nil {
			return err
		}
		fmt.Println(formatResult(result))
		return nil
	},
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions available to expressions",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		for _, proto := range svc.GetRegisteredFunctions() {
			fmt.Println(proto)
		}
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive expression shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		fmt.Println("mathex " + mathex.Version() + " (empty line or Ctrl-D to exit)")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				break
			}
			result, err := evaluate(cmd.Context(), svc, line, nil)
			if err != nil {
				log.Error(err)
				continue
			}
			fmt.Println(formatResult(result))
		}
		return scanner.Err()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Bool("verbose", false, "enable debug logging")
	pf.String("style", "mathematical", "operator precedence style (mathematical or clike)")
	pf.String("lang", "", "BCP 47 language tag for string comparisons")

	ef := evalCmd.Flags()
	ef.StringSlice("arg", nil, "parameter binding as name=value (repeatable)")
	ef.Int64("int-tolerance", 0, "absolute tolerance for integer comparisons")
	ef.Float64("float-tolerance", 0, "absolute tolerance for float comparisons")
	ef.Float64("percentage", 0, "relative comparison tolerance in (0, 1)")

	cobra.CheckErr(viper.BindPFlags(pf))
	cobra.CheckErr(viper.BindPFlags(ef))
	viper.SetEnvPrefix("MATHEX")
	viper.AutomaticEnv()

	rootCmd.AddCommand(evalCmd, functionsCmd, replCmd)
}

func newService() (*mathex.ParsingService, error) {
	opts := []mathex.ServiceOption{}
	switch style := viper.GetString("style"); style {
	case "", "mathematical":
	case "clike":
		opts = append(opts, mathex.WithPrecedenceStyle(types.StyleCLike))
	default:
		return nil, fmt.Errorf("unknown precedence style %q", style)
	}
	if lang := viper.GetString("lang"); lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid language tag %q: %w", lang, err)
		}
		opts = append(opts, mathex.WithLanguage(tag))
	}
	return mathex.NewParsingService(opts...), nil
}

func evaluate(ctx context.Context, svc *mathex.ParsingService, expression string, bindings map[string]any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	expr, err := svc.Interpret(ctx, expression)
	if err != nil {
		return nil, err
	}
	if !expr.Success() {
		return nil, expr.Diagnostic()
	}
	log.WithField("parameters", expr.ParameterNames()).Debug("expression interpreted")
	tol := toleranceFromFlags()
	if bindings != nil {
		if tol == nil {
			return expr.ComputeNamed(ctx, bindings)
		}
		env := make([]any, 0, len(bindings))
		for _, name := range expr.ParameterNames() {
			value, ok := bindings[name]
			if !ok {
				return nil, fmt.Errorf("missing binding for parameter %q", name)
			}
			env = append(env, value)
		}
		return expr.ComputeWithTolerance(ctx, tol, env...)
	}
	if tol != nil {
		return expr.ComputeWithTolerance(ctx, tol)
	}
	return expr.ComputeContext(ctx)
}

func toleranceFromFlags() *types.Tolerance {
	tol := &types.Tolerance{}
	if v := viper.GetInt64("int-tolerance"); v > 0 {
		tol.IntegerRange = &v
	}
	if v := viper.GetFloat64("float-tolerance"); v > 0 {
		tol.FloatRange = &v
	}
	if v := viper.GetFloat64("percentage"); v > 0 {
		tol.Percentage = &v
	}
	if tol.IsZero() {
		return nil
	}
	return tol
}

// parseBindings turns repeated name=value flags into typed parameter
// values: integer, then float, then boolean, falling back to string.
func parseBindings(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	bindings := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid binding %q, expected name=value", pair)
		}
		bindings[name] = parseValue(raw)
	}
	return bindings, nil
}

func parseValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func formatResult(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
