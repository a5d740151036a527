package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/YONSEI-TPLAB/map-api/pkg/config"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI() error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set API Keys", "keys"),
						huh.NewOption("Set Driving Defaults", "driving"),
						huh.NewOption("Set Transit Mode", "transit"),
						huh.NewOption("Set Static Map Size", "map"),
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "keys":
			err = runSetKeysTUI(cfg)
		case "driving":
			err = runSetDrivingTUI(cfg)
		case "transit":
			err = runSetTransitModeTUI(cfg)
		case "map":
			err = runSetMapSizeTUI(cfg)
		case "theme":
			err = runSetThemeTUI(cfg)
		case "view":
			PrintConfig(cfg)
		}

		if err != nil {
			return err
		}
	}
}

// PrintConfig prints the saved settings with the API key masked.
func PrintConfig(cfg *config.AppConfig) {
	fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.mapapi.json) ---"))

	creds := cfg.Credentials()
	fmt.Printf("API Key ID: %s\n", orNotSet(creds.KeyID))
	fmt.Printf("API Key: %s\n", orNotSet(mask(creds.Key)))
	fmt.Printf("Waypoints: %d\n", cfg.Waypoints())

	options := cfg.DrivingOptions
	if len(options) == 0 {
		options = params.DefaultOptions
	}
	fmt.Printf("Driving Options: %s\n", strings.Join(options, ", "))
	fmt.Printf("Transit Mode: %s\n", cfg.Mode())

	w, h := cfg.MapSize()
	fmt.Printf("Map Size: %dx%d\n", w, h)
	fmt.Printf("Accent Color: %s\n", orNotSet(cfg.AccentColor))
	fmt.Println()
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}

func mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}

func runSetKeysTUI(cfg *config.AppConfig) error {
	keyID, key := cfg.APIKeyID, cfg.APIKey

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API Key ID").
				Description("X-NCP-APIGW-API-KEY-ID from the NCP console.").
				Value(&keyID),
			huh.NewInput().
				Title("API Key").
				Description("X-NCP-APIGW-API-KEY. Environment variables override this.").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.APIKeyID = strings.TrimSpace(keyID)
	cfg.APIKey = strings.TrimSpace(key)
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ API keys saved.\n"))
	return nil
}

func runSetDrivingTUI(cfg *config.AppConfig) error {
	waypoints := cfg.Waypoints()
	options := cfg.DrivingOptions
	if len(options) == 0 {
		options = append([]string(nil), params.DefaultOptions...)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Waypoint capacity").
				Description("Selects the 5 or 15 waypoint driving endpoint.").
				Options(
					huh.NewOption("5 waypoints", 5),
					huh.NewOption("15 waypoints", 15),
				).
				Value(&waypoints),
			huh.NewMultiSelect[string]().
				Title("Default route options").
				Options(selected(drivingOptions, options)...).
				Value(&options),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.NumWaypoints = waypoints
	cfg.DrivingOptions = options
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Driving defaults saved: %d waypoints, %s\n", waypoints, strings.Join(options, ", "))))
	return nil
}

func runSetTransitModeTUI(cfg *config.AppConfig) error {
	mode := cfg.Mode()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default transit mode").
				Options(
					huh.NewOption("Realtime (TIME)", params.ModeRealtime),
					huh.NewOption("Timetable (STATIC)", params.ModeStatic),
				).
				Value(&mode),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.TransitMode = mode
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Transit mode changed to: %s\n", mode)))
	return nil
}

func runSetMapSizeTUI(cfg *config.AppConfig) error {
	w, h := cfg.MapSize()
	width, height := strconv.Itoa(w), strconv.Itoa(h)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Width (px)").Value(&width).Validate(validateSize),
			huh.NewInput().Title("Height (px)").Value(&height).Validate(validateSize),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.MapWidth, _ = strconv.Atoi(width)
	cfg.MapHeight, _ = strconv.Atoi(height)
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Static maps will be %dx%d.\n", cfg.MapWidth, cfg.MapHeight)))
	return nil
}

// validateSize accepts the 1..1024 px range of the static map endpoint.
func validateSize(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1024 {
		return fmt.Errorf("must be a number between 1 and 1024")
	}
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for mapapi").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Naver Green", colorBlock(defaultAccent)), defaultAccent),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Charm Purple", colorBlock("99")), "99"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #03C75A").
					Placeholder("#").
					Value(&hexInput).
					Validate(validateHex),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ The theme color is now saved.\n"))
	return nil
}

func validateHex(s string) error {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return fmt.Errorf("must be a valid 6-character hex code starting with #")
	}
	return nil
}
