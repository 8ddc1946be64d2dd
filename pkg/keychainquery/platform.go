package keychainquery

import (
	"fmt"
	"sort"
	"strings"
)

// Platform maps the package's closed enumerations onto the identifiers a
// particular store expects.
type Platform struct {
	// Classes maps each data type to the store's class tag.
	Classes map[DataType]string
	// Attributes maps each criterion key to the store's attribute name.
	Attributes map[Key]string
	// MatchLimits maps each match limit to the store's tag.
	MatchLimits map[MatchLimit]string

	Success      Status
	ItemNotFound Status
}

// DefaultPlatform returns the constants of the Apple Security framework
// (the string values behind kSecClass*, kSecAttr*, kSecMatchLimit*).
func DefaultPlatform() Platform {
	return Platform{
		Classes: map[DataType]string{
			InternetPassword: "inet",
			GenericPassword:  "genp",
			Certificate:      "cert",
			CryptoKey:        "keys",
			Identity:         "idnt",
		},
		Attributes: map[Key]string{
			KeyClass:            "class",
			KeyAccount:          "acct",
			KeyService:          "svce",
			KeyValueData:        "v_Data",
			KeyMatchLimit:       "m_Limit",
			KeyReturnAttributes: "r_Attributes",
			KeyReturnData:       "r_Data",
		},
		MatchLimits: map[MatchLimit]string{
			MatchOne: "m_LimitOne",
			MatchAll: "m_LimitAll",
		},
		Success:      StatusSuccess,
		ItemNotFound: StatusItemNotFound,
	}
}

// Clone returns a deep copy of p.
func (p Platform) Clone() Platform {
	out := Platform{
		Classes:      make(map[DataType]string, len(p.Classes)),
		Attributes:   make(map[Key]string, len(p.Attributes)),
		MatchLimits:  make(map[MatchLimit]string, len(p.MatchLimits)),
		Success:      p.Success,
		ItemNotFound: p.ItemNotFound,
	}
	for k, v := range p.Classes {
		out.Classes[k] = v
	}
	for k, v := range p.Attributes {
		out.Attributes[k] = v
	}
	for k, v := range p.MatchLimits {
		out.MatchLimits[k] = v
	}
	return out
}

// Validate reports every enumeration value the table has no entry for and
// every name or tag used by more than one entry of the same table.
func (p Platform) Validate() error {
	var problems []string
	classes := map[string][]string{}
	for _, t := range DataTypes() {
		tag := p.Classes[t]
		if tag == "" {
			problems = append(problems, "missing class "+t.String())
			continue
		}
		classes[tag] = append(classes[tag], t.String())
	}
	attributes := map[string][]string{}
	for _, k := range Keys() {
		name := p.Attributes[k]
		if name == "" {
			problems = append(problems, "missing attribute "+k.String())
			continue
		}
		attributes[name] = append(attributes[name], k.String())
	}
	limits := map[string][]string{}
	for _, l := range []MatchLimit{MatchOne, MatchAll} {
		tag := p.MatchLimits[l]
		if tag == "" {
			problems = append(problems, "missing match limit "+l.String())
			continue
		}
		limits[tag] = append(limits[tag], l.String())
	}
	problems = append(problems, duplicates("class tag", classes)...)
	problems = append(problems, duplicates("attribute name", attributes)...)
	problems = append(problems, duplicates("match limit tag", limits)...)
	if p.Success == p.ItemNotFound {
		problems = append(problems, "success and item-not-found statuses must be distinct")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid platform table: %s", strings.Join(problems, ", "))
	}
	return nil
}

func duplicates(what string, owners map[string][]string) []string {
	var out []string
	for value, names := range owners {
		if len(names) > 1 {
			out = append(out, fmt.Sprintf("%s %q used by %s", what, value, strings.Join(names, " and ")))
		}
	}
	sort.Strings(out)
	return out
}

// AttributeName returns the store's name for k, falling back to k.String()
// when the table has no entry.
func (p Platform) AttributeName(k Key) string {
	if name, ok := p.Attributes[k]; ok && name != "" {
		return name
	}
	return k.String()
}

// ClassTag returns the store's class tag for t.
func (p Platform) ClassTag(t DataType) (string, bool) {
	tag, ok := p.Classes[t]
	return tag, ok && tag != ""
}

// DataTypeForTag is the inverse of ClassTag.
func (p Platform) DataTypeForTag(tag string) (DataType, bool) {
	for t, v := range p.Classes {
		if v == tag {
			return t, true
		}
	}
	return 0, false
}

// MatchLimitTag returns the store's tag for l.
func (p Platform) MatchLimitTag(l MatchLimit) (string, bool) {
	tag, ok := p.MatchLimits[l]
	return tag, ok && tag != ""
}
