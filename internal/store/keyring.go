package store

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/zalando/go-keyring"

	kq "github.com/systmms/keychainquery/pkg/keychainquery"
)

// Keyring is a Store backed by the OS keyring through go-keyring (macOS
// Keychain, Linux Secret Service, Windows Credential Manager).
//
// go-keyring only knows generic passwords addressed by service and account,
// so requests for any other class report StatusUnimplemented and requests
// without a service or account report StatusParam.
type Keyring struct {
	platform kq.Platform
}

// NewKeyring returns a keyring store. Attribute names in returned items
// follow p.
func NewKeyring(p kq.Platform) *Keyring {
	return &Keyring{platform: p}
}

// Search reads one item. A MatchAll request yields a one-element []any,
// since go-keyring cannot enumerate.
func (k *Keyring) Search(ctx context.Context, req kq.Request) (kq.Status, any) {
	status, item := k.search(ctx, req)
	return k.platformStatus(status), item
}

// Add stores the payload criterion. Existing items are not replaced.
func (k *Keyring) Add(ctx context.Context, req kq.Request) kq.Status {
	return k.platformStatus(k.add(ctx, req))
}

// Delete removes the item addressed by req.
func (k *Keyring) Delete(ctx context.Context, req kq.Request) kq.Status {
	return k.platformStatus(k.remove(ctx, req))
}

// platformStatus maps the success and not-found codes onto the platform
// table, which may override them.
func (k *Keyring) platformStatus(st kq.Status) kq.Status {
	switch st {
	case kq.StatusSuccess:
		return k.platform.Success
	case kq.StatusItemNotFound:
		return k.platform.ItemNotFound
	}
	return st
}

func (k *Keyring) search(ctx context.Context, req kq.Request) (kq.Status, any) {
	service, account, status := k.address(ctx, req)
	if status != kq.StatusSuccess {
		return status, nil
	}

	secret, err := keyring.Get(service, account)
	if err != nil {
		return statusFor(err), nil
	}

	item := k.item(req, service, account, []byte(secret))
	if item == nil {
		return kq.StatusSuccess, nil
	}
	if limit, ok := req.MatchLimit(); ok && limit == kq.MatchAll {
		return kq.StatusSuccess, []any{item}
	}
	return kq.StatusSuccess, item
}

func (k *Keyring) add(ctx context.Context, req kq.Request) kq.Status {
	service, account, status := k.address(ctx, req)
	if status != kq.StatusSuccess {
		return status
	}
	data, ok := req.Data()
	if !ok {
		return kq.StatusParam
	}

	if _, err := keyring.Get(service, account); err == nil {
		return kq.StatusDuplicateItem
	} else if !errors.Is(err, keyring.ErrNotFound) {
		return statusFor(err)
	}

	if err := keyring.Set(service, account, string(data)); err != nil {
		return statusFor(err)
	}
	return kq.StatusSuccess
}

func (k *Keyring) remove(ctx context.Context, req kq.Request) kq.Status {
	service, account, status := k.address(ctx, req)
	if status != kq.StatusSuccess {
		return status
	}
	if err := keyring.Delete(service, account); err != nil {
		return statusFor(err)
	}
	return kq.StatusSuccess
}

// IsAvailable reports whether an OS keyring exists on this platform.
func (k *Keyring) IsAvailable() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	case "linux", "freebsd", "openbsd":
		return os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" ||
			os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return false
}

// IsHeadless returns true if running in headless environment
func (k *Keyring) IsHeadless() bool {
	if os.Getenv("SSH_TTY") != "" {
		return true
	}
	if os.Getenv("CI") != "" {
		return true
	}
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return true
	}
	return false
}

func (k *Keyring) address(ctx context.Context, req kq.Request) (string, string, kq.Status) {
	if st := ContextStatus(ctx); st != kq.StatusSuccess {
		return "", "", st
	}
	if class, ok := req.Class(); ok && class != kq.GenericPassword {
		return "", "", kq.StatusUnimplemented
	}
	service, ok := req.Service()
	if !ok || service == "" {
		return "", "", kq.StatusParam
	}
	account, ok := req.Account()
	if !ok || account == "" {
		return "", "", kq.StatusParam
	}
	return service, account, kq.StatusSuccess
}

// item shapes a found secret by the request's return flags. With neither
// flag set there is nothing to return, as with SecItemCopyMatching.
func (k *Keyring) item(req kq.Request, service, account string, data []byte) kq.Attributes {
	wantData, _ := req.ReturnData()
	wantAttrs, _ := req.ReturnAttributes()
	if !wantData && !wantAttrs {
		return nil
	}

	item := kq.Attributes{}
	if wantData {
		item[k.platform.AttributeName(kq.KeyValueData)] = data
	}
	if wantAttrs {
		tag, _ := k.platform.ClassTag(kq.GenericPassword)
		item[k.platform.AttributeName(kq.KeyClass)] = tag
		item[k.platform.AttributeName(kq.KeyService)] = service
		item[k.platform.AttributeName(kq.KeyAccount)] = account
	}
	return item
}

// statusFor translates go-keyring errors into store status codes.
func statusFor(err error) kq.Status {
	switch {
	case err == nil:
		return kq.StatusSuccess
	case errors.Is(err, keyring.ErrNotFound):
		return kq.StatusItemNotFound
	case errors.Is(err, keyring.ErrSetDataTooBig):
		return kq.StatusParam
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user denied"),
		strings.Contains(msg, "canceled"),
		strings.Contains(msg, "cancelled"):
		return kq.StatusUserCanceled
	case strings.Contains(msg, "access denied"),
		strings.Contains(msg, "authorization"):
		return kq.StatusAuthFailed
	case strings.Contains(msg, "locked"),
		strings.Contains(msg, "interaction"):
		return kq.StatusInteractionNotAllowed
	case strings.Contains(msg, "unsupported platform"):
		return kq.StatusUnimplemented
	}
	return kq.Status(-1)
}

var (
	_ Store        = (*Keyring)(nil)
	_ Availability = (*Keyring)(nil)
)
