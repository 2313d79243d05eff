// internal/twiml/twiml_test.go
package twiml

import (
	"strings"
	"testing"
)

func render(t *testing.T, r *Response) string {
	t.Helper()
	body, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestRenderSayHangup(t *testing.T) {
	got := render(t, New().Say("Hallo").Hangup())

	if !strings.HasPrefix(got, "<?xml") {
		t.Errorf("expected XML header, got %q", got)
	}
	if !strings.Contains(got, `<Say voice="Polly.Marlene" language="de-DE">Hallo</Say>`) {
		t.Errorf("unexpected Say verb: %s", got)
	}
	if !strings.Contains(got, "<Hangup></Hangup>") {
		t.Errorf("expected Hangup verb: %s", got)
	}
}

func TestRenderVerbOrder(t *testing.T) {
	got := render(t, New().Say("a").Pause(1).Play("/assets/beep.mp3").Say("b"))

	sayA := strings.Index(got, ">a</Say>")
	pause := strings.Index(got, "<Pause")
	play := strings.Index(got, "<Play")
	sayB := strings.Index(got, ">b</Say>")
	if !(sayA < pause && pause < play && play < sayB) {
		t.Errorf("verbs out of order: %s", got)
	}
}

func TestRenderGather(t *testing.T) {
	got := render(t, New().Gather(Gather{
		Input:               "speech",
		Language:            Language,
		SpeechModel:         "phone_call_v2",
		Timeout:             60,
		SpeechTimeout:       2,
		ConfidenceThreshold: 0.1,
		Action:              "/gather",
	}))

	for _, want := range []string{
		`input="speech"`,
		`language="de-DE"`,
		`speechModel="phone_call_v2"`,
		`timeout="60"`,
		`speechTimeout="2"`,
		`confidenceThreshold="0.1"`,
		`action="/gather"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}

func TestRenderRecord(t *testing.T) {
	got := render(t, New().Record(Record{
		MaxLength: 60,
		PlayBeep:  true,
		Trim:      "trim-silence",
		Action:    "/transcribe",
		Method:    "POST",
	}))

	for _, want := range []string{
		`maxLength="60"`,
		`playBeep="true"`,
		`trim="trim-silence"`,
		`action="/transcribe"`,
		`method="POST"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}

func TestRenderEscapesText(t *testing.T) {
	got := render(t, New().Say("Preis < 10 & mehr"))

	if !strings.Contains(got, "Preis &lt; 10 &amp; mehr") {
		t.Errorf("expected escaped text, got %s", got)
	}
}
