package validators

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneNormalizer returns a func that formats a phone as E.164, reading
// numbers without a country code as belonging to region. Unparsable input
// yields "".
func PhoneNormalizer(region string) func(string) string {
	region = strings.ToUpper(strings.TrimSpace(region))

	return func(phone string) string {
		phone = strings.TrimSpace(phone)
		if phone == "" {
			return ""
		}

		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			return ""
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
}
