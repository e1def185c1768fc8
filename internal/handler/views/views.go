// Package views renders the quiz page.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/pavelanni/mocktest/internal/i18n"
	"github.com/pavelanni/mocktest/internal/model"
	"github.com/pavelanni/mocktest/internal/quiz"
)

// PageData is everything the quiz page shows.
type PageData struct {
	Snapshot  quiz.Snapshot
	Failure   string
	Empty     bool
	CSRFToken string
	// Lang is the explicit ?lang= choice carried through form posts.
	Lang string
}

// LangPath appends the lang query parameter to p when lang is set.
func LangPath(p, lang string) string {
	if lang == "" {
		return p
	}
	return p + "?" + url.Values{"lang": {lang}}.Encode()
}

const stylesheet = `body{font-family:sans-serif;max-width:40rem;margin:2rem auto;padding:0 1rem}
.option{display:block;width:100%;margin:.4rem 0;padding:.6rem;text-align:left;font-size:1rem;cursor:pointer}
.option.correct{background:#c8f7c5}.option.wrong{background:#f7c5c5}
#status{color:#555}.error{color:#b00}.verdict{font-weight:bold}
form.inline{display:inline}`

// QuizPage renders the full page for one session snapshot.
func QuizPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		title := esc(i18n.T(ctx, "AppTitle"))
		fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">"+
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">"+
			"<title>%s</title><style>%s</style></head><body>\n<h1>%s</h1>\n", title, stylesheet, title)

		snap := data.Snapshot
		switch {
		case data.Failure != "":
			fmt.Fprintf(&b, "<p class=\"error\">%s</p>\n",
				esc(i18n.Td(ctx, "LoadFailed", map[string]any{"Error": data.Failure})))
			writeForm(&b, LangPath("/reload", data.Lang), data.CSRFToken, i18n.T(ctx, "Retry"))
		case data.Empty:
			fmt.Fprintf(&b, "<p>%s</p>\n", esc(i18n.T(ctx, "EmptyPool")))
			writeForm(&b, LangPath("/reload", data.Lang), data.CSRFToken, i18n.T(ctx, "Retry"))
		case snap.Question == nil:
			fmt.Fprintf(&b, "<p>%s</p>\n", esc(i18n.T(ctx, "Loading")))
		default:
			writeQuestion(ctx, &b, snap, data.CSRFToken, data.Lang)
		}

		b.WriteString("</body></html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeQuestion(ctx context.Context, b *strings.Builder, snap quiz.Snapshot, csrf, lang string) {
	q := snap.Question
	fmt.Fprintf(b, "<p id=\"problem\">%s</p>\n", esc(q.Question))

	fmt.Fprintf(b, "<form method=\"post\" action=\"%s\">%s\n", esc(LangPath("/answer", lang)), csrfField(csrf))
	for _, c := range model.Choices {
		fmt.Fprintf(b, "<button type=\"submit\" name=\"choice\" value=\"%s\" id=\"%s\" class=\"%s\">%s. %s</button>\n",
			c, c, optionClass(c, snap.Evaluation), c, esc(q.Options.Get(c)))
	}
	b.WriteString("</form>\n")

	status := esc(i18n.Td(ctx, "SourceLine", map[string]any{"Source": q.Source, "Number": q.Number}))
	if label := q.Label(); label != "" {
		status += " " + esc(label)
	}
	if st := snap.Stats; st != nil {
		status += "<br>" + esc(i18n.Td(ctx, "StatsLine", map[string]any{
			"Correct":  st.Correct,
			"Total":    st.Total,
			"Accuracy": fmt.Sprintf("%.1f", st.Accuracy),
		}))
	}
	fmt.Fprintf(b, "<p id=\"status\">%s</p>\n", status)

	if e := snap.Evaluation; e != nil {
		verdict := i18n.T(ctx, "Correct")
		if !e.IsCorrect {
			verdict = i18n.Td(ctx, "Wrong", map[string]any{"Answer": string(e.Correct)})
		}
		fmt.Fprintf(b, "<p class=\"verdict\">%s</p>\n", esc(verdict))
		writeForm(b, LangPath("/next", lang), csrf, i18n.T(ctx, "Next"))
	}
	if snap.Stats != nil {
		writeForm(b, LangPath("/stats/reset", lang), csrf, i18n.T(ctx, "ResetStats"))
	}
}

func optionClass(c model.Choice, e *model.Evaluation) string {
	switch {
	case e == nil:
		return "option"
	case c == e.Correct:
		return "option correct"
	case c == e.Chosen:
		return "option wrong"
	}
	return "option"
}

func writeForm(b *strings.Builder, action, csrf, label string) {
	fmt.Fprintf(b, "<form class=\"inline\" method=\"post\" action=\"%s\">%s<button type=\"submit\">%s</button></form>\n",
		esc(action), csrfField(csrf), esc(label))
}

func csrfField(token string) string {
	return fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\">", esc(token))
}

func esc(s string) string {
	return templ.EscapeString(s)
}
