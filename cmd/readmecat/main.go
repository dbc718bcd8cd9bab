package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/readmecat/readmecat"
)

const name = "readmecat"

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// Exit codes follow the documented contract: 1 covers runtime failures,
// 2 covers bad invocations and bad configuration. Degraded placeholders
// are not failures; the run still exits 0.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `Usage: %s [options] TEMPLATE OUTPUT

  Renders the template at TEMPLATE and writes the result to OUTPUT,
  substituting {{service:parameters}} placeholders with live values from
  the service's API. A placeholder that cannot be resolved degrades to
  "N/A: <reason>" text instead of failing the run.

  The GitHub token is read from the environment variable named by the
  github.token_env config key (default GITHUB_TOKEN). Without a token
  the public API still serves repository metadata, at a much lower rate
  limit and without traffic data.

Options:
`

func main() {
	cli := NewCLI(os.Stdout, os.Stderr)
	os.Exit(cli.Run(os.Args))
}

// CLI is the command line object.
type CLI struct {
	outStream, errStream io.Writer
}

// NewCLI creates a CLI with the given output streams.
func NewCLI(out, err io.Writer) *CLI {
	return &CLI{
		outStream: out,
		errStream: err,
	}
}

// Run accepts the command line arguments, program name included, and
// runs one render. It returns the exit code.
func (cli *CLI) Run(args []string) int {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(cli.errStream)
	flags.Usage = func() {
		fmt.Fprintf(cli.errStream, usage, name)
		flags.PrintDefaults()
	}

	var (
		configPath = flags.String("config", "",
			"path to a TOML configuration file")
		logLevel = flags.String("log-level", "",
			"minimum log level (TRACE, DEBUG, INFO, WARN or ERR)")
		envFile = flags.String("env-file", "",
			"dotenv file to load before reading the token variable")
		traffic = flags.Bool("traffic", false,
			"enable the traffic view properties (needs push access)")
		dry = flags.Bool("dry", false,
			"print the rendered document to stdout instead of writing OUTPUT")
		showVersion = flags.Bool("version", false,
			"print the version and exit")
	)

	if err := flags.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(cli.outStream, "%s v%s\n", name, version)
		return exitOK
	}

	if flags.NArg() != 2 {
		fmt.Fprintf(cli.errStream,
			"%s: want TEMPLATE and OUTPUT arguments, got %d\n\n",
			name, flags.NArg())
		flags.Usage()
		return exitUsage
	}
	templatePath, outputPath := flags.Arg(0), flags.Arg(1)

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(cli.errStream, "%s: %s\n", name, err)
		return exitUsage
	}
	if *logLevel != "" {
		config.Logging.Level = *logLevel
	}

	if err := setupLogging(config.Logging.Level, cli.errStream); err != nil {
		fmt.Fprintf(cli.errStream, "%s: %s\n", name, err)
		return exitUsage
	}

	perms, err := config.Render.FileMode()
	if err != nil {
		fmt.Fprintf(cli.errStream, "%s: %s\n", name, err)
		return exitUsage
	}

	// Credentials come from the environment, optionally seeded from a
	// dotenv file.
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(cli.errStream, "%s: loading %s: %s\n",
				name, *envFile, err)
			return exitError
		}
	} else {
		godotenv.Load() // a local .env is optional
	}
	token := os.Getenv(config.Github.TokenEnv)
	if token == "" {
		log.Printf("[WARN] (cli) %s is not set, using anonymous access "+
			"with its much lower rate limit", config.Github.TokenEnv)
	}

	contents, err := os.ReadFile(templatePath)
	if err != nil {
		fmt.Fprintf(cli.errStream, "%s: reading template: %s\n", name, err)
		return exitError
	}

	clients := readmecat.NewClientSet()
	defer clients.Stop()
	if err := clients.AddGithub(githubInput(config, token)); err != nil {
		fmt.Fprintf(cli.errStream, "%s: %s\n", name, err)
		return exitError
	}

	fetcher := readmecat.NewFetcher(readmecat.FetcherInput{
		Clients: clients,
	})
	defer fetcher.Stop()

	properties := readmecat.DefaultProperties()
	if *traffic {
		properties = properties.WithTraffic()
	}
	resolver := readmecat.NewResolver(readmecat.ResolverInput{
		Fetcher:    fetcher,
		Properties: properties,
	})

	var backup readmecat.BackupFunc
	if *config.Render.Backup {
		backup = readmecat.Backup
	}
	tmpl := readmecat.NewTemplate(readmecat.TemplateInput{
		Name:     filepath.Base(templatePath),
		Contents: string(contents),
		Renderer: readmecat.NewFileRenderer(readmecat.FileRendererInput{
			Path:           outputPath,
			Perms:          perms,
			CreateDestDirs: *config.Render.CreateDestDirs,
			Dry:            *dry,
			Backup:         backup,
		}),
	})

	re, err := resolver.Run(tmpl)
	if err != nil {
		fmt.Fprintf(cli.errStream, "%s: %s\n", name, err)
		return exitError
	}

	result, err := tmpl.Render(re.Contents)
	if err != nil {
		fmt.Fprintf(cli.errStream, "%s: rendering %s: %s\n",
			name, outputPath, err)
		return exitError
	}

	if *dry {
		fmt.Fprint(cli.outStream, string(re.Contents))
	}

	if n := len(re.Degraded); n > 0 {
		log.Printf("[WARN] (cli) %d of %d placeholders degraded: %s",
			n, len(tmpl.Placeholders()), strings.Join(re.Degraded, ", "))
	}
	log.Printf("[DEBUG] (cli) done, rendered=%t would=%t",
		result.DidRender, result.WouldRender)

	return exitOK
}

// githubInput maps the effective config onto the client input. TLS of
// the transport is only customized when one of the TLS keys is set.
func githubInput(config *Config, token string) readmecat.GithubInput {
	g := config.Github
	sslEnabled := g.CACert != "" || g.CAPath != "" ||
		g.TLSServerName != "" || *g.TLSSkipVerify
	return readmecat.GithubInput{
		Address: g.Address,
		Token:   token,
		Transport: readmecat.TransportInput{
			SSLEnabled: sslEnabled,
			SSLVerify:  !*g.TLSSkipVerify,
			SSLCACert:  g.CACert,
			SSLCAPath:  g.CAPath,
			ServerName: g.TLSServerName,
		},
	}
}
