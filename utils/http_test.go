package utils

import (
	"errors"
	"net/netip"
	"net/url"
	"testing"
)

func TestIsPublicIP(t *testing.T) {
	cases := map[string]bool{
		"8.8.8.8":          true,
		"2606:4700::1111":  true,
		"127.0.0.1":        false,
		"10.1.2.3":         false,
		"172.16.0.1":       false,
		"192.168.1.1":      false,
		"169.254.169.254":  false,
		"100.64.0.1":       false,
		"0.0.0.0":          false,
		"::1":              false,
		"fe80::1":          false,
		"fd00::1":          false,
		"::ffff:127.0.0.1": false,
	}
	for raw, want := range cases {
		if got := IsPublicIP(netip.MustParseAddr(raw)); got != want {
			t.Errorf("IsPublicIP(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestCheckPublicURL(t *testing.T) {
	for raw, blocked := range map[string]bool{
		"https://boards.greenhouse.io/acme/jobs/1": false,
		"http://localhost:8080/":                   true,
		"http://api.localhost/":                    true,
		"http://127.0.0.1:9000/jobs":               true,
		"http://[::1]/":                            true,
		"http://169.254.169.254/latest/meta-data/": true,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatal(err)
		}
		err = CheckPublicURL(u)
		if got := errors.Is(err, ErrBlockedAddress); got != blocked {
			t.Errorf("CheckPublicURL(%s) = %v, want blocked=%v", raw, err, blocked)
		}
	}
}
