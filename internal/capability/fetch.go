// Package capability holds the optional globals injected into the sandbox:
// a network fetch backed by a real HTTP client and a small collection-utility
// object. Each capability is constructed once per run and bound explicitly.
package capability

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
	"github.com/go-resty/resty/v2"

	"github.com/Darkripper214/js-visualizer-9000-server/internal/hooks"
	"github.com/Darkripper214/js-visualizer-9000-server/internal/loop"
)

// Fetch exposes fetch(url) to submitted code. The request runs off the loop
// goroutine; the returned promise settles back on it, so the lifecycle events
// interleave with the rest of the trace in true scheduler order.
type Fetch struct {
	client *resty.Client
}

func NewFetch() *Fetch {
	return &Fetch{
		client: resty.New().
			SetTimeout(4 * time.Second).
			SetRetryCount(0),
	}
}

// Bind installs the fetch global. The promise it returns is registered with
// the hooks registry like any other promise, with the current execution as
// its trigger.
func (f *Fetch) Bind(vm *goja.Runtime, l *loop.Loop, reg *hooks.Registry) error {
	return vm.Set("fetch", func(call goja.FunctionCall) goja.Value {
		url := call.Argument(0).String()

		promise, resolve, reject := vm.NewPromise()
		id := reg.Init(hooks.KindPromise, "")
		l.AddPending()

		go func() {
			resp, err := f.client.R().Get(url)
			l.Complete(func() {
				if err != nil {
					reject(err.Error())
					return
				}
				reg.Resolve(id)
				resolve(responseValue(resp))
			})
		}()

		return vm.ToValue(promise)
	})
}

// responseValue shapes a response the way submitted code expects: status,
// ok, body text, headers, and a parsed json field when the payload is JSON.
func responseValue(resp *resty.Response) map[string]interface{} {
	headers := make(map[string]string, len(resp.Header()))
	for k := range resp.Header() {
		headers[k] = resp.Header().Get(k)
	}
	out := map[string]interface{}{
		"status":  resp.StatusCode(),
		"ok":      resp.IsSuccess(),
		"body":    resp.String(),
		"headers": headers,
	}
	if strings.Contains(resp.Header().Get("Content-Type"), "json") {
		var parsed interface{}
		if err := sonic.Unmarshal(resp.Body(), &parsed); err == nil {
			out["json"] = parsed
		}
	}
	return out
}
