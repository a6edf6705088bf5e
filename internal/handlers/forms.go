// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"apifinder/internal/middleware"
	"apifinder/internal/render"
)

// maxFormBytes bounds the request body of the stub forms.
const maxFormBytes = 64 << 10

// Forms serves the contact, subscribe and register forms. Submissions are
// validated and acknowledged; nothing is stored or sent anywhere.
type Forms struct {
	renderer *render.Renderer
}

// NewForms creates the form handler group.
func NewForms(renderer *render.Renderer) *Forms {
	return &Forms{renderer: renderer}
}

// ContactPage renders an empty contact form.
func (f *Forms) ContactPage(w http.ResponseWriter, r *http.Request) {
	f.contact(w, r, http.StatusOK, map[string]string{}, fieldErrors{}, nil)
}

// ContactSubmit validates a contact message.
func (f *Forms) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := f.parse(w, r, "name", "email", "subject", "message")
	if !ok {
		return
	}
	fe := validateContact(form["name"], form["email"], form["subject"], form["message"])
	if !fe.ok() {
		f.contact(w, r, http.StatusUnprocessableEntity, form, fe, nil)
		return
	}
	slog.Info("contact form accepted", "subject", form["subject"], "request_id", middleware.RequestIDFromCtx(r.Context()))
	f.contact(w, r, http.StatusOK, map[string]string{}, fieldErrors{}, []render.Flash{{
		Type:    "success",
		Message: "Thanks for reaching out! We'll get back to you soon.",
	}})
}

func (f *Forms) contact(w http.ResponseWriter, r *http.Request, status int, form map[string]string, fe fieldErrors, flashes []render.Flash) {
	f.renderer.Page(w, r, status, "contact", &render.PageData{
		Title:   "Contact Us",
		Section: "contact",
		Flashes: flashes,
		Data: map[string]any{
			"Form":     form,
			"Errors":   map[string]string(fe),
			"Subjects": contactSubjects,
		},
	})
}

// SubscribePage renders the Pro subscription form, monthly preselected.
func (f *Forms) SubscribePage(w http.ResponseWriter, r *http.Request) {
	f.subscribe(w, r, http.StatusOK, map[string]string{"plan": "monthly"}, fieldErrors{}, nil)
}

// SubscribeSubmit validates a subscription request. No payment is taken.
func (f *Forms) SubscribeSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := f.parse(w, r, "email", "plan")
	if !ok {
		return
	}
	fe := validateSubscribe(form["email"], form["plan"])
	if !fe.ok() {
		f.subscribe(w, r, http.StatusUnprocessableEntity, form, fe, nil)
		return
	}
	slog.Info("subscription request accepted", "plan", form["plan"], "request_id", middleware.RequestIDFromCtx(r.Context()))
	f.subscribe(w, r, http.StatusOK, map[string]string{"plan": form["plan"]}, fieldErrors{}, []render.Flash{{
		Type:    "success",
		Message: "Thanks! Subscriptions open soon and we'll email you when they do.",
	}})
}

func (f *Forms) subscribe(w http.ResponseWriter, r *http.Request, status int, form map[string]string, fe fieldErrors, flashes []render.Flash) {
	f.renderer.Page(w, r, status, "subscribe", &render.PageData{
		Title:   "Subscribe",
		Section: "pricing",
		Flashes: flashes,
		Data: map[string]any{
			"Form":   form,
			"Errors": map[string]string(fe),
			"Plans":  subscribePlans,
		},
	})
}

// RegisterPage renders an empty registration form.
func (f *Forms) RegisterPage(w http.ResponseWriter, r *http.Request) {
	f.register(w, r, http.StatusOK, map[string]string{}, fieldErrors{}, nil)
}

// RegisterSubmit validates a registration. No account is created.
func (f *Forms) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := f.parse(w, r, "email", "password", "confirm_password")
	if !ok {
		return
	}
	fe := validateRegister(form["email"], form["password"], form["confirm_password"])
	// Passwords are never echoed back into the form.
	echo := map[string]string{"email": form["email"]}
	if !fe.ok() {
		f.register(w, r, http.StatusUnprocessableEntity, echo, fe, nil)
		return
	}
	slog.Info("registration accepted", "request_id", middleware.RequestIDFromCtx(r.Context()))
	f.register(w, r, http.StatusOK, map[string]string{}, fieldErrors{}, []render.Flash{{
		Type:    "success",
		Message: "Thanks for signing up! Accounts open soon and we'll email you when they do.",
	}})
}

func (f *Forms) register(w http.ResponseWriter, r *http.Request, status int, form map[string]string, fe fieldErrors, flashes []render.Flash) {
	f.renderer.Page(w, r, status, "register", &render.PageData{
		Title:   "Create Your Account",
		Flashes: flashes,
		Data: map[string]any{
			"Form":   form,
			"Errors": map[string]string(fe),
		},
	})
}

// parse reads the named fields from a size-limited form body.
func (f *Forms) parse(w http.ResponseWriter, r *http.Request, fields ...string) (map[string]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	form := make(map[string]string, len(fields))
	for _, name := range fields {
		v := r.PostFormValue(name)
		if !strings.Contains(name, "password") {
			v = strings.TrimSpace(v)
		}
		form[name] = v
	}
	return form, true
}
