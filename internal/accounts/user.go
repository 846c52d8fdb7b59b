// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package accounts

import (
	"strings"
	"unicode"
)

// Columns is the users CSV header, in file order.
var Columns = []string{"username", "password_hash", "email", "phone", "created_at", "intro"}

// TimeFormat is the layout of created_at.
const TimeFormat = "2006-01-02 15:04:05"

// Display placeholders.
const (
	NoValue      = "暂无"
	DefaultIntro = "这个人很懒，还没有填写简介。"
)

// User is one row of the users file.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CreatedAt    string `json:"created_at"`
	Intro        string `json:"intro"`
}

// Profile is the display form of a user.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
	Intro     string `json:"intro"`
}

// Profile returns u with placeholders applied and the phone formatted.
func (u User) Profile() Profile {
	email := u.Email
	if strings.TrimSpace(email) == "" {
		email = NoValue
	}
	return Profile{
		Username:  u.Username,
		Email:     email,
		Phone:     FormatPhone(u.Phone),
		CreatedAt: u.CreatedAt,
		Intro:     DisplayIntro(u.Intro),
	}
}

// FormatPhone renders a phone number for display. Empty values and the
// placeholder show as 暂无, an 11-digit number is grouped 3-4-4, and
// anything else is shown as stored. A trailing ".0" left by spreadsheet
// exports is dropped.
func FormatPhone(phone string) string {
	p := strings.TrimSpace(phone)
	if p == "" || p == NoValue {
		return NoValue
	}
	if digits := strings.TrimSuffix(p, ".0"); allDigits(digits) {
		p = digits
	}
	if len(p) == 11 && allDigits(p) {
		return p[:3] + " " + p[3:7] + " " + p[7:]
	}
	return p
}

// DisplayIntro returns intro, or the default when it is blank.
func DisplayIntro(intro string) string {
	if strings.TrimSpace(intro) == "" {
		return DefaultIntro
	}
	return intro
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
