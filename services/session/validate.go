package session

import (
	"context"
	"time"

	"txadmin-bridge/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type ValidateResult struct {
	Live      bool
	Status    int
	LandedURL string
}

// Validate probes the panel over plain HTTP with the persisted
// credentials and reports whether the session still holds. A redirect
// back to the auth page means it expired.
func Validate(ctx context.Context, baseURL, dataDir string) (ValidateResult, error) {
	ctx, span := tracer.Start(ctx, "Validate")
	defer span.End()

	creds, err := LoadCredentials(dataDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load credentials")
		return ValidateResult{}, err
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	restyutil.InstrumentClient(client, "txbridge/session/http")

	client.SetHeader("Cookie", creds.CookieString)
	if creds.CsrfToken != nil {
		client.SetHeader("X-TxAdmin-CsrfToken", *creds.CsrfToken)
	}

	res, err := client.R().
		SetContext(ctx).
		Get(baseURL + "/history")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "probe request failed")
		return ValidateResult{}, err
	}

	landed := baseURL + "/history"
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		landed = res.RawResponse.Request.URL.String()
	}

	return ValidateResult{
		Live:      !isAuthURL(landed),
		Status:    res.StatusCode(),
		LandedURL: landed,
	}, nil
}
