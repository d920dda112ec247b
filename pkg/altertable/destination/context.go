package destination

import (
	"fmt"
	"strings"
)

// defaultLib identifies payloads whose source library is unknown.
const defaultLib = "altertable-go"

// IPSentinel tells the collector not to substitute the request IP for
// server-originated events that resolved no client IP.
const IPSentinel = 0

// contextPropertyMap maps dotted source context paths to destination
// property names.
var contextPropertyMap = map[string]string{
	"ip":                  "$ip",
	"page.url":            "$current_url",
	"page.referrer":       "$referrer",
	"os.name":             "$os",
	"screen.width":        "$screen_width",
	"screen.height":       "$screen_height",
	"device.id":           "$device_id",
	"device.manufacturer": "$device_manufacturer",
	"device.model":        "$device_model",
	"device.name":         "$device_name",
	"device.type":         "$device_type",
	"userAgent":           "$useragent",
	"locale":              "$locale",
	"timezone":            "$timezone",
}

// propertiesFromContext flattens the nested source context into destination
// properties. Campaign sub-fields become utm_* keys, library name/version
// populate $lib/$lib_version, and the width/height pair synthesizes a
// combined viewport property.
func propertiesFromContext(evtCtx map[string]any, channel string) map[string]any {
	props := make(map[string]any)

	for path, name := range contextPropertyMap {
		if v, ok := lookupPath(evtCtx, path); ok {
			props[name] = v
		}
	}

	// Campaign sub-fields. Both "name" and "campaign" map to utm_campaign;
	// everything else gets the utm_ prefix.
	if campaign, ok := evtCtx["campaign"].(map[string]any); ok {
		for key, v := range campaign {
			switch key {
			case "name", "campaign":
				props["utm_campaign"] = v
			default:
				props["utm_"+key] = v
			}
		}
	}

	props["$lib"] = defaultLib
	if library, ok := evtCtx["library"].(map[string]any); ok {
		if name, ok := library["name"].(string); ok && name != "" {
			props["$lib"] = name
		}
		if version, ok := library["version"].(string); ok && version != "" {
			props["$lib_version"] = version
		}
	}

	// Server-originated events with no resolved IP must not fall back to
	// the request IP at the collector.
	if channel == ChannelServer {
		if _, ok := props["$ip"]; !ok {
			props["$ip"] = IPSentinel
		}
	}

	width, hasWidth := props["$screen_width"]
	height, hasHeight := props["$screen_height"]
	if hasWidth && hasHeight {
		props["$viewport"] = fmt.Sprintf("%vx%v", width, height)
	}

	return props
}

// lookupPath resolves a dotted path through nested string-keyed maps.
func lookupPath(m map[string]any, path string) (any, bool) {
	for {
		head, rest, found := strings.Cut(path, ".")
		if !found {
			v, ok := m[path]
			return v, ok
		}

		next, ok := m[head].(map[string]any)
		if !ok {
			return nil, false
		}
		m = next
		path = rest
	}
}
