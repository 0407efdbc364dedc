package model

import (
	"strings"
	"time"

	"github.com/guregu/null"
)

// FieldKind selects how a datapoint is rendered on the history page.
type FieldKind int

const (
	KindString FieldKind = iota
	KindList
	KindDate
)

// Datapoint describes one tracked WHOIS field: the state table column it
// lives in, its display label, and its rendering kind.
type Datapoint struct {
	Key   string
	Label string
	Kind  FieldKind
}

// Datapoints lists the tracked fields in display order. The labels match
// the ones the collector writes into the changed table.
var Datapoints = []Datapoint{
	{"registrar", "Registrar", KindString},
	{"whois_server", "WHOIS Server", KindString},
	{"referral_url", "Referral URL", KindString},
	{"updated_date", "Updated Date", KindDate},
	{"creation_date", "Creation Date", KindDate},
	{"expiration_date", "Expiration Date", KindDate},
	{"name_servers", "Nameservers", KindList},
	{"status", "Status", KindList},
	{"emails", "Emails", KindList},
	{"dnssec", "DNSSEC", KindString},
	{"name", "Registrant Name", KindString},
	{"org", "Registrant Organization", KindString},
	{"address", "Registrant Address", KindString},
	{"city", "Registrant City", KindString},
	{"state", "Registrant State", KindString},
	{"zipcode", "Registrant Zipcode", KindString},
	{"ip", "IP Address", KindList},
	{"mx", "MX Addresses", KindList},
}

// Domain is a row from the domain table: one tracked name plus a pointer to
// its most recent state.
type Domain struct {
	Domain       string      `db:"domain"`
	LastState    null.Int    `db:"last_state"`
	ActiveChecks bool        `db:"active_checks"`
	DoDNS        bool        `db:"do_dns"`
	LastChecked  null.Time   `db:"last_checked"`
	CurRawText   null.String `db:"cur_raw_text"`
}

// State is one immutable snapshot of a domain's WHOIS record. Rows are
// created by the collector in check-time order and never touched here.
type State struct {
	ID             int64       `db:"id"`
	Domain         string      `db:"domain"`
	CheckTime      time.Time   `db:"check_time"`
	RawText        null.String `db:"raw_text"`
	Registrar      null.String `db:"registrar"`
	WhoisServer    null.String `db:"whois_server"`
	ReferralURL    null.String `db:"referral_url"`
	UpdatedDate    null.Time   `db:"updated_date"`
	CreationDate   null.Time   `db:"creation_date"`
	ExpirationDate null.Time   `db:"expiration_date"`
	NameServers    null.String `db:"name_servers"`
	Status         null.String `db:"status"`
	Emails         null.String `db:"emails"`
	DNSSEC         null.String `db:"dnssec"`
	Name           null.String `db:"name"`
	Org            null.String `db:"org"`
	Address        null.String `db:"address"`
	City           null.String `db:"city"`
	State          null.String `db:"state"`
	Zipcode        null.String `db:"zipcode"`
	IP             null.String `db:"ip"`
	MX             null.String `db:"mx"`
}

// StringField returns the value of a string- or list-kind datapoint by its
// column key.
func (s *State) StringField(key string) null.String {
	switch key {
	case "registrar":
		return s.Registrar
	case "whois_server":
		return s.WhoisServer
	case "referral_url":
		return s.ReferralURL
	case "name_servers":
		return s.NameServers
	case "status":
		return s.Status
	case "emails":
		return s.Emails
	case "dnssec":
		return s.DNSSEC
	case "name":
		return s.Name
	case "org":
		return s.Org
	case "address":
		return s.Address
	case "city":
		return s.City
	case "state":
		return s.State
	case "zipcode":
		return s.Zipcode
	case "ip":
		return s.IP
	case "mx":
		return s.MX
	}
	return null.String{}
}

// DateField returns the value of a date-kind datapoint by its column key.
func (s *State) DateField(key string) null.Time {
	switch key {
	case "updated_date":
		return s.UpdatedDate
	case "creation_date":
		return s.CreationDate
	case "expiration_date":
		return s.ExpirationDate
	}
	return null.Time{}
}

// Changed is one field transition between two consecutive states, written by
// the collector when it diffs a new snapshot against the previous one.
type Changed struct {
	ID      int64       `db:"id"`
	State   int64       `db:"state"`
	Info    string      `db:"info"`
	ValFrom null.String `db:"val_from"`
	ValTo   null.String `db:"val_to"`
}

// SplitList breaks a comma-delimited field value into its items. A value
// with no comma comes back as a single-element slice.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
