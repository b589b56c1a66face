package cli

import (
	"fmt"

	"github.com/costreports/costreports/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner shows the welcome banner with version information.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$                        /$$     /$$$$$$$                                          /$$
         /$$__  $$                      | $$    | $$__  $$                                        | $$
        | $$  \__/  /$$$$$$   /$$$$$$$ /$$$$$$  | $$  \ $$  /$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$ /$$$$$$   /$$$$$$$
        | $$       /$$__  $$ /$$_____/|_  $$_/  | $$$$$$$/ /$$__  $$ /$$__  $$ /$$__  $$ /$$__  $$|_  $$_/  /$$_____/
        | $$      | $$  \ $$|  $$$$$$   | $$    | $$__  $$| $$$$$$$$| $$  \ $$| $$  \ $$| $$  \__/  | $$   |  $$$$$$
        | $$    $$| $$  | $$ \____  $$  | $$ /$$| $$  \ $$| $$_____/| $$  | $$| $$  | $$| $$        | $$ /$$\____  $$
        |  $$$$$$/|  $$$$$$/ /$$$$$$$/  |  $$$$/| $$  | $$|  $$$$$$$| $$$$$$$/|  $$$$$$/| $$        |  $$$$//$$$$$$$/
         \______/  \______/ |_______/    \___/  |__/  |__/ \_______/| $$____/  \______/ |__/         \___/ |_______/
                                                                    | $$
                                                                    | $$
                                                                    |__/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("CostReports CLI (v%s)", formattedVersion)))
}
