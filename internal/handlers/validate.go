package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for the stub forms.
const (
	maxNameLen     = 200
	maxEmailLen    = 254
	maxMessageLen  = 5_000
	minPasswordLen = 8
	maxPasswordLen = 128
)

// emailPattern is deliberately loose: something, @, something, dot, something.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// fieldErrors maps a form field name to its message. Empty means valid.
type fieldErrors map[string]string

func (fe fieldErrors) ok() bool { return len(fe) == 0 }

// contactSubjects are the accepted values of the contact form's subject.
var contactSubjects = []Option{
	{Value: "general", Label: "General Inquiry"},
	{Value: "support", Label: "Technical Support"},
	{Value: "feature", Label: "Feature Request"},
	{Value: "bug", Label: "Bug Report"},
	{Value: "business", Label: "Business Inquiry"},
}

// subscribePlans are the accepted billing periods.
var subscribePlans = []Option{
	{Value: "monthly", Label: "Monthly"},
	{Value: "yearly", Label: "Yearly (save 17%)"},
}

func validateEmail(fe fieldErrors, email string) {
	switch {
	case email == "":
		fe["email"] = "Email is required."
	case utf8.RuneCountInString(email) > maxEmailLen || !emailPattern.MatchString(email):
		fe["email"] = "Please enter a valid email address."
	}
}

// validateContact checks the contact form.
func validateContact(name, email, subject, message string) fieldErrors {
	fe := fieldErrors{}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		fe["name"] = "Name is required."
	case utf8.RuneCountInString(name) > maxNameLen:
		fe["name"] = "Name is too long (max 200 characters)."
	}
	validateEmail(fe, email)
	if !validOption(contactSubjects, subject) {
		fe["subject"] = "Please select a subject."
	}
	message = strings.TrimSpace(message)
	switch {
	case message == "":
		fe["message"] = "Message is required."
	case utf8.RuneCountInString(message) > maxMessageLen:
		fe["message"] = "Message is too long (max 5,000 characters)."
	}
	return fe
}

// validateSubscribe checks the subscription form.
func validateSubscribe(email, plan string) fieldErrors {
	fe := fieldErrors{}
	validateEmail(fe, email)
	if !validOption(subscribePlans, plan) {
		fe["plan"] = "Please choose a billing period."
	}
	return fe
}

// validateRegister checks the registration form.
func validateRegister(email, password, confirm string) fieldErrors {
	fe := fieldErrors{}
	validateEmail(fe, email)
	switch n := utf8.RuneCountInString(password); {
	case n == 0:
		fe["password"] = "Password is required."
	case n < minPasswordLen:
		fe["password"] = "Password must be at least 8 characters long."
	case n > maxPasswordLen:
		fe["password"] = "Password is too long (max 128 characters)."
	}
	switch {
	case confirm == "":
		fe["confirm_password"] = "Please confirm your password."
	case confirm != password:
		fe["confirm_password"] = "Passwords do not match."
	}
	return fe
}

func validOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
