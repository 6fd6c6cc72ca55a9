// Package validate holds the client-side field rules for the login and
// registration forms. Rules return errors whose text is shown inline next
// to the offending field, so every message is user-facing.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-message/mail"
)

// Minimum lengths enforced by the forms.
const (
	MinNameLen     = 2
	MinPhoneDigits = 8
	MinPasswordLen = 6
)

// Required rejects blank input.
func Required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s wajib diisi", field)
		}
		return nil
	}
}

// MinLen rejects input shorter than n characters.
func MinLen(n int, msg string) func(string) error {
	return func(s string) error {
		if utf8.RuneCountInString(strings.TrimSpace(s)) < n {
			return errors.New(msg)
		}
		return nil
	}
}

// FirstName validates the first-name field.
func FirstName(s string) error {
	return MinLen(MinNameLen, "Nama depan minimal 2 karakter")(s)
}

// LastName validates the last-name field.
func LastName(s string) error {
	return MinLen(MinNameLen, "Nama belakang minimal 2 karakter")(s)
}

// Email accepts a single bare address such as user@example.com.
func Email(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Email tidak valid")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(domainOf(s), ".") {
		return errors.New("Email tidak valid")
	}
	return nil
}

// Country requires a country to be chosen.
func Country(s string) error {
	return MinLen(2, "Pilih negara asal")(s)
}

// Phone accepts at least MinPhoneDigits ASCII digits and nothing else.
func Phone(s string) error {
	if len(s) < MinPhoneDigits {
		return errors.New("Nomor telepon minimal 8 digit")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("Nomor telepon hanya boleh angka")
		}
	}
	return nil
}

// Password enforces the minimum password length.
func Password(s string) error {
	if utf8.RuneCountInString(s) < MinPasswordLen {
		return errors.New("Password minimal 6 karakter")
	}
	return nil
}

// Confirmation returns a rule checking that the confirmation matches the
// password read through password at validation time.
func Confirmation(password func() string) func(string) error {
	return func(s string) error {
		if utf8.RuneCountInString(s) < MinPasswordLen {
			return errors.New("Konfirmasi password minimal 6 karakter")
		}
		if s != password() {
			return errors.New("Konfirmasi password tidak cocok")
		}
		return nil
	}
}

// URL accepts an absolute http or https URL.
func URL(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("URL wajib diisi")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("URL tidak valid: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.New("URL harus diawali http:// atau https://")
	}
	return nil
}

// Seconds accepts a positive whole number of seconds.
func Seconds(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("Masukkan jumlah detik lebih dari 0")
	}
	return nil
}

func domainOf(addr string) string {
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return ""
	}
	return addr[at+1:]
}
