package signin

import (
	"context"
	"errors"
	"fmt"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"net/url"
	"strings"
	"time"
)

// Authorizer obtains a new token for an OAuth configuration
type Authorizer interface {
	Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// StaticAuthorizer returns an access token the user already has, e.g. one pasted from a prompt
type StaticAuthorizer struct {
	AccessToken string
}

func (authorizer *StaticAuthorizer) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	if authorizer.AccessToken == "" {
		return nil, errors.New("access token is empty")
	}
	return &oauth2.Token{AccessToken: authorizer.AccessToken, TokenType: "Bearer"}, nil
}

var ExecAllocatorOptions = [...]chromedp.ExecAllocatorOption{
	chromedp.NoFirstRun,
	chromedp.NoDefaultBrowserCheck,

	chromedp.Flag("disable-background-networking", true),
	chromedp.Flag("disable-breakpad", true),
	chromedp.Flag("disable-client-side-phishing-detection", true),
	chromedp.Flag("disable-default-apps", true),
	chromedp.Flag("disable-dev-shm-usage", true),
	chromedp.Flag("disable-extensions", true),
	chromedp.Flag("disable-popup-blocking", true),
	chromedp.Flag("disable-sync", true),
	chromedp.Flag("metrics-recording-only", true),
	chromedp.Flag("password-store", "basic"),
	chromedp.Flag("use-mock-keychain", true),
}

/*
BrowserAuthorizer opens the consent page in a browser window and waits until the
browser is redirected to the redirect URL of the config. The code of the redirect
is exchanged for a token
*/
type BrowserAuthorizer struct {
	Timeout time.Duration
}

type redirectResult struct {
	code string
	err  error
}

func (authorizer *BrowserAuthorizer) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	if config.RedirectURL == "" {
		return nil, errors.New("redirect url is not configured")
	}

	if authorizer.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, authorizer.Timeout)
		defer cancel()
	}

	state := uuid.NewString()
	consentURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, ExecAllocatorOptions[:]...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf))
	defer cancel()

	redirected := make(chan redirectResult, 1)

	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventRequestWillBeSent:
			code, ok, err := codeFromRedirect(config.RedirectURL, ev.Request.URL, state)
			if !ok {
				return
			}
			select {
			case redirected <- redirectResult{code: code, err: err}:
			default:
			}
		}
	})

	log.Infof("Opening browser for consent ...")
	log.Debugf("Consent url: %s", consentURL)

	runErr := chromedp.Run(taskCtx, network.Enable(), chromedp.Navigate(consentURL))

	code, err := awaitRedirect(ctx, redirected, runErr)
	if err != nil {
		return nil, err
	}
	return config.Exchange(ctx, code)
}

/*
awaitRedirect returns the code of the captured redirect. A provider that redirects
right away fails the navigation with a load error after the code was captured,
so runErr is only returned when nothing was captured
*/
func awaitRedirect(ctx context.Context, redirected <-chan redirectResult, runErr error) (string, error) {
	var result redirectResult
	if runErr != nil {
		select {
		case result = <-redirected:
			log.WithError(runErr).Debug("Navigation failed after the redirect was captured")
		default:
			return "", runErr
		}
	} else {
		select {
		case result = <-redirected:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if result.err != nil {
		return "", result.err
	}
	return result.code, nil
}

/*
codeFromRedirect reports whether requestURL targets redirectURL and returns its
authorization code. A redirect with a foreign state or an error parameter fails
*/
func codeFromRedirect(redirectURL string, requestURL string, state string) (string, bool, error) {
	if !strings.HasPrefix(requestURL, redirectURL) {
		return "", false, nil
	}

	parsed, err := url.Parse(requestURL)
	if err != nil {
		return "", true, err
	}
	query := parsed.Query()

	if errCode := query.Get("error"); errCode != "" {
		return "", true, fmt.Errorf("consent denied: %s %s", errCode, query.Get("error_description"))
	}
	if query.Get("state") != state {
		return "", true, errors.New("redirect state does not match")
	}

	code := query.Get("code")
	if code == "" {
		return "", true, errors.New("redirect has no authorization code")
	}
	return code, true, nil
}
