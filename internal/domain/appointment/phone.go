package appointment

import "strings"

// WhatsAppPrefix marks phones that arrived through the WhatsApp channel.
const WhatsAppPrefix = "whatsapp:"

// CanonicalPhone trims p and writes the channel prefix in lower case, so
// "WhatsApp:+34600111222" is stored as "whatsapp:+34600111222".
func CanonicalPhone(p string) string {
	p = strings.TrimSpace(p)
	if hasChannelPrefix(p) {
		return WhatsAppPrefix + strings.TrimSpace(p[len(WhatsAppPrefix):])
	}
	return p
}

func hasChannelPrefix(p string) bool {
	return len(p) >= len(WhatsAppPrefix) && strings.EqualFold(p[:len(WhatsAppPrefix)], WhatsAppPrefix)
}

// PhoneVariants lists the stored representations treated as the same phone:
// the value itself, the value without the channel prefix and with it. When
// normalize is given, its non-empty result for the bare value is added too.
func PhoneVariants(phone string, normalize func(string) string) []string {
	p := strings.TrimSpace(phone)
	if p == "" {
		return nil
	}

	bare := p
	if hasChannelPrefix(p) {
		bare = strings.TrimSpace(p[len(WhatsAppPrefix):])
	}

	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	add(p)
	add(bare)
	add(WhatsAppPrefix + bare)

	if normalize != nil {
		if e164 := normalize(bare); e164 != "" {
			add(e164)
			add(WhatsAppPrefix + e164)
		}
	}

	return out
}
