package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/domain"
	"github.com/zerotreasury/zdao/internal/usecase"
)

var (
	labelStyle   = color.New(color.FgWhite, color.Bold)
	addressStyle = color.New(color.FgGreen, color.Bold)
	mutedStyle   = color.New(color.Faint)
	headerStyle  = color.New(color.FgCyan, color.Bold)
	warnStyle    = color.New(color.FgYellow)
	okStyle      = color.New(color.FgGreen)
	failStyle    = color.New(color.FgRed)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return failStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// JSON writes v as indented JSON
func JSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// DomainLabel shows the configured domain by name and any other domain by hash
func DomainLabel(cfg *config.RuntimeConfig, d domain.Domain) string {
	if cfg != nil && cfg.DomainName != "" && cfg.Domain == d && !strings.HasPrefix(cfg.DomainName, "0x") {
		return cfg.DomainName
	}
	return shortHash(d.Hex())
}

func shortHash(h string) string {
	if len(h) <= 18 {
		return h
	}
	return h[:10] + "…" + h[len(h)-6:]
}

func formatAddress(addr common.Address) string {
	if addr == (common.Address{}) {
		return mutedStyle.Sprint("(none)")
	}
	return addr.Hex()
}

// renderTx prints the transaction line and its decoded events
func renderTx(out io.Writer, tx *usecase.TxResult) {
	if tx == nil {
		return
	}
	fmt.Fprintf(out, "%s %s %s\n",
		labelStyle.Sprint("Tx:"),
		tx.TxHash.Hex(),
		mutedStyle.Sprintf("(block %d)", tx.BlockNumber))
	for _, ev := range tx.Events {
		fmt.Fprintf(out, "  %s %s\n", mutedStyle.Sprint("└─"), ev.String())
	}
}
