package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/render"
)

// exportFs est remplacé par un système de fichiers mémoire dans les tests.
var exportFs afero.Fs = afero.NewOsFs()

type client struct {
	http    *http.Client
	baseURL string
	locale  string
	out     io.Writer
}

func newClient(c *cli.Context) *client {
	return &client{
		http:    &http.Client{Timeout: c.GlobalDuration("timeout")},
		baseURL: strings.TrimRight(c.GlobalString("server"), "/"),
		locale:  c.GlobalString("locale"),
		out:     c.App.Writer,
	}
}

func (cl *client) url(path string) string {
	u := cl.baseURL + path
	if cl.locale != "" {
		u += "?locale=" + url.QueryEscape(cl.locale)
	}
	return u
}

func (cl *client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, cl.url(path), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return cl.http.Do(req)
}

// decode lit une réponse JSON; un statut >= 400 devient une erreur avec le
// message du serveur.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Code != "" {
			return fmt.Errorf("%s (%s): %s", resp.Status, e.Code, e.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func getCommand(path string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cl := newClient(c)
		resp, err := cl.do(context.Background(), http.MethodGet, path, nil)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		var pretty any
		if err := decode(resp, &pretty); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		enc := json.NewEncoder(cl.out)
		enc.SetIndent("", "  ")
		return enc.Encode(pretty)
	}
}

func selectAction(c *cli.Context) error {
	id := c.String("session")
	if id == "" {
		return cli.NewExitError("--session est requis", 2)
	}
	body := map[string]any{}
	switch {
	case c.Int("day") >= 0:
		body["dayIndex"] = c.Int("day")
	case c.String("label") != "":
		body["label"] = c.String("label")
	default:
		return cli.NewExitError("--day ou --label est requis", 2)
	}

	cl := newClient(c)
	resp, err := cl.do(context.Background(), http.MethodPost, "/api/v1/sessions/"+url.PathEscape(id)+"/select", body)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	var st app.StateDTO
	if err := decode(resp, &st); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	day := "-"
	if st.ActiveDayIndex != nil {
		day = fmt.Sprint(*st.ActiveDayIndex)
	}
	fmt.Fprintf(cl.out, "session %s: jour=%s\n", id, day)
	return nil
}

func exportAction(c *cli.Context) error {
	out := c.String("out")
	if out == "" {
		return cli.NewExitError("--out est requis", 2)
	}
	format := render.Format(strings.ToLower(c.String("format")))
	if format == "" {
		format = render.FormatFromPath(out)
	}

	cl := newClient(c)
	resp, err := cl.do(context.Background(), http.MethodGet, "/api/v1/view", nil)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	var view app.WidgetView
	if err := decode(resp, &view); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err := render.Export(exportFs, out, format, view); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Fprintf(cl.out, "%s écrit (%s)\n", out, format)
	return nil
}

func watchAction(c *cli.Context) error {
	cl := newClient(c)
	// Le flux dure plus longtemps que le timeout HTTP.
	stream := &http.Client{}

	resp, err := cl.do(context.Background(), http.MethodPost, "/api/v1/sessions", nil)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	var view app.WidgetView
	if err := decode(resp, &view); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	sessionPath := "/api/v1/sessions/" + view.SessionID
	defer func() {
		if resp, err := cl.do(context.Background(), http.MethodDelete, sessionPath, nil); err == nil {
			_ = decode(resp, nil)
		}
	}()
	fmt.Fprintf(cl.out, "session %s montée\n", view.SessionID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Int("seconds"))*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.baseURL+sessionPath+"/events", nil)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	sresp, err := stream.Do(req)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer sresp.Body.Close()

	// La fin de la durée d'observation coupe le flux: ce n'est pas une erreur.
	if err := printEvents(sresp.Body, cl.out); err != nil && ctx.Err() == nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

// printEvents affiche une ligne par event SSE portant un état.
func printEvents(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	event := ""
	for sc.Scan() {
		line := sc.Text()
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			event = v
			continue
		}
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok || event == "ping" {
			continue
		}
		var st app.StateDTO
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			continue
		}
		day := "-"
		if st.ActiveDayIndex != nil {
			day = fmt.Sprint(*st.ActiveDayIndex)
		}
		fmt.Fprintf(w, "%-17s jour=%s %s\n", event, day, st.DisplayTimestamp)
		if event == "widget.unmounted" {
			return nil
		}
	}
	return sc.Err()
}
