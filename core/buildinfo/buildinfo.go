package buildinfo

import "fmt"

// Set via -ldflags at build time:
//
//	-X 'github.com/matheusfcorreia/barbershop-whatsapp-bot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/matheusfcorreia/barbershop-whatsapp-bot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/matheusfcorreia/barbershop-whatsapp-bot/core/buildinfo.Date=2025-08-30T12:00:00Z'
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// UserAgent identifies outbound HTTP calls made by the bot.
func UserAgent() string {
	return fmt.Sprintf("barberbot/%s (%s)", Version, Commit)
}
