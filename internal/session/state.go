// Package session owns the authentication lifecycle of a fintrack client:
// booting from stored tokens, login, registration, logout and the page
// selector shown to an authenticated user.
package session

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// Form selects which credential form an unauthenticated user sees.
type Form int

const (
	FormLogin Form = iota
	FormRegister
)

func (f Form) String() string {
	switch f {
	case FormLogin:
		return "login"
	case FormRegister:
		return "register"
	default:
		return "unknown"
	}
}

// Page is the authenticated page selector.
type Page string

const (
	PageDashboard    Page = "dashboard"
	PageTransactions Page = "transactions"
	PageAccounts     Page = "accounts"
	PageCategories   Page = "categories"
	PageInsights     Page = "insights"
)

// Pages returns every page in navigation order.
func Pages() []Page {
	return []Page{PageDashboard, PageTransactions, PageAccounts, PageCategories, PageInsights}
}

// Title returns the page name as shown in the navigation bar.
func (p Page) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// ParsePage resolves a page name. Unknown names return a NotFoundError.
func ParsePage(name string) (Page, error) {
	for _, p := range Pages() {
		if string(p) == strings.ToLower(strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return "", errors.NewNotFoundError("page", name)
}

// State is the session state. It is one of Booting, Unauthenticated or
// Authenticated; no other implementations exist.
type State interface {
	isState()
	fmt.Stringer
}

// Booting is the state before stored tokens have been checked.
type Booting struct{}

// Unauthenticated is the state without a usable session.
type Unauthenticated struct {
	Form Form
}

// Authenticated is the state with a verified user.
type Authenticated struct {
	User models.User
	Page Page
}

func (Booting) isState()         {}
func (Unauthenticated) isState() {}
func (Authenticated) isState()   {}

func (Booting) String() string { return "booting" }

func (s Unauthenticated) String() string { return "unauthenticated(" + s.Form.String() + ")" }

func (s Authenticated) String() string {
	return fmt.Sprintf("authenticated(%s, %s)", s.User.Username, s.Page)
}
