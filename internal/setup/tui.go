package setup

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/corridormap/config"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"gopkg.in/yaml.v3"
)

// GeneratedConfigFile is where the wizard writes its result.
const GeneratedConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// Answers collected by the wizard.
type Answers struct {
	Mode          string
	Source        string
	APIURL        string
	CorridorsFile string
	Period        string
	Addr          string
	PublicURL     string
	Refresh       string
}

// RunTUI launches the terminal configuration wizard and returns the path
// of the generated config file.
func RunTUI() (string, error) {
	answers := Answers{
		Mode:    config.ModeTUI,
		Source:  config.SourceAPI,
		APIURL:  "http://localhost:8080",
		Period:  domain.DefaultPeriod.String(),
		Addr:    ":8000",
		Refresh: "5m",
	}
	var confirm bool

	step("")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Map where the liquidity lives.\n"))

	fmt.Println(stepStyle.Render("STEP 1: MODE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should the heatmap render?").
				Options(
					huh.NewOption("Terminal", config.ModeTUI),
					huh.NewOption("Web dashboard", config.ModeWeb),
				).
				Value(&answers.Mode),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 2: SOURCE")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where do corridor metrics come from?").
				Options(
					huh.NewOption("Analytics API", config.SourceAPI),
					huh.NewOption("Local export (json/yaml)", config.SourceFile),
				).
				Value(&answers.Source),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 3: LOCATION")
	var location huh.Field
	if answers.Source == config.SourceFile {
		location = huh.NewInput().
			Title("Corridors file").
			Description("Path to a json or yaml export").
			Value(&answers.CorridorsFile).
			Validate(validateFile)
	} else {
		location = huh.NewInput().
			Title("Analytics API URL").
			Value(&answers.APIURL).
			Validate(validateURL)
	}
	err = huh.NewForm(huh.NewGroup(location)).Run()
	if err != nil {
		return "", err
	}

	step("STEP 4: PERIOD")
	periodOptions := make([]huh.Option[string], 0, len(domain.Periods()))
	for _, p := range domain.Periods() {
		periodOptions = append(periodOptions, huh.NewOption(p.String(), p.String()))
	}
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Initial aggregation period").
				Options(periodOptions...).
				Value(&answers.Period),
		),
	).Run()
	if err != nil {
		return "", err
	}

	if answers.Mode == config.ModeWeb {
		step("STEP 5: DASHBOARD")
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Listen address").
					Value(&answers.Addr),
				huh.NewInput().
					Title("Refresh interval").
					Description("Duration string (e.g. 30s, 1m, 5m)").
					Value(&answers.Refresh).
					Validate(validateInterval),
			),
		).Run()
		if err != nil {
			return "", err
		}
	} else {
		step("STEP 5: LINKS")
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Dashboard URL").
					Description("Optional, prefixed to corridor links").
					Value(&answers.PublicURL),
			),
		).Run()
		if err != nil {
			return "", err
		}
	}

	step("FINAL CONFIRMATION")
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(answers.summary()))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return "", err
	}

	if !confirm {
		return "", fmt.Errorf("setup cancelled by user")
	}

	if err := Write(GeneratedConfigFile, answers); err != nil {
		return "", err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", GeneratedConfigFile)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return GeneratedConfigFile, nil
}

// Write stores answers as a yaml config readable by config.Get.
func Write(path string, answers Answers) error {
	data, err := yaml.Marshal(answers.toConfig())
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

func (a Answers) toConfig() config.ConfigTmp {
	cfg := config.ConfigTmp{
		Mode:   a.Mode,
		Source: a.Source,
		Period: a.Period,
	}

	if a.Source == config.SourceFile {
		cfg.CorridorsFile = strings.TrimSpace(a.CorridorsFile)
	} else {
		cfg.APIURL = strings.TrimSpace(a.APIURL)
	}

	if a.Mode == config.ModeWeb {
		cfg.Addr = a.Addr
		cfg.RefreshInterval, _ = time.ParseDuration(a.Refresh)
	} else {
		cfg.PublicURL = strings.TrimSpace(a.PublicURL)
	}

	return cfg
}

func (a Answers) summary() string {
	location := a.APIURL
	if a.Source == config.SourceFile {
		location = a.CorridorsFile
	}
	return fmt.Sprintf("Mode: %s\nSource: %s\nLocation: %s\nPeriod: %s\n", a.Mode, a.Source, location, a.Period)
}

func step(title string) {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("CORRIDOR MAP CONFIG WIZARD"))
	if title != "" {
		fmt.Println(stepStyle.Render(title))
	}
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute url (e.g. https://api.example.com)")
	}
	return nil
}

func validateFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("path cannot be empty")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
