package render

import (
	"fmt"
	"io"

	"github.com/zerotreasury/zdao/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RolesRenderer renders registry role changes
type RolesRenderer struct {
	out io.Writer
}

// NewRolesRenderer creates a new roles renderer
func NewRolesRenderer(out io.Writer) *RolesRenderer {
	return &RolesRenderer{out: out}
}

// Render prints role membership after a grant, revoke or check
func (r *RolesRenderer) Render(result *usecase.ManageRolesResult) error {
	if result.Action == usecase.RoleActionCheck {
		if result.HasRole {
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s has %s", result.Account.Hex(), result.Name)))
		} else {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s does not have %s", result.Account.Hex(), result.Name)))
		}
		return nil
	}

	past := map[usecase.RoleAction]string{
		usecase.RoleActionGrant:  "granted",
		usecase.RoleActionRevoke: "revoked",
	}[result.Action]

	if !result.Changed {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s was already %s for %s", result.Name, past, result.Account.Hex())))
		return nil
	}

	preposition := "to"
	if result.Action == usecase.RoleActionRevoke {
		preposition = "from"
	}
	title := cases.Title(language.English).String(past)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s %s %s", title, result.Name, preposition, result.Account.Hex())))
	renderTx(r.out, result.Tx)
	return nil
}
