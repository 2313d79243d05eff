// Package orchestrator drives one phone call across its webhook sequence:
// greeting, exchange turns, fallback recording, and termination. Session
// state lives in the store between webhooks; every branch returns a valid
// call-control document, whatever the external capabilities do.
package orchestrator

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/user/hotline/internal/classify"
	"github.com/user/hotline/internal/prompt"
	"github.com/user/hotline/internal/report"
	"github.com/user/hotline/internal/state"
	"github.com/user/hotline/internal/twiml"
	"github.com/user/hotline/internal/types"
	"github.com/user/hotline/pkg/llm"
)

// SystemDirective is the first message of every session and is never removed.
const SystemDirective = "Du bist ein freundlicher Kundendienst für Mein Unternehmen. " +
	"Antworte immer auf Deutsch, nutze deutsches 24-Stunden-Format und bleibe kurz und hilfreich."

// terminationPhrase ends the call when it appears anywhere in a transcript,
// case-insensitively. Literal matching is inherited behavior; intent-based
// end-of-call detection would replace this.
const terminationPhrase = "auf wiederhören"

// minTranscriptWords is the word count below which a recognition result is
// considered unreliable and the turn falls back to audio recording.
const minTranscriptWords = 2

// Spoken utterances.
const (
	sayRecorded      = "Dieses Gespräch wird aufgezeichnet und verarbeitet. Ihre Daten werden vertraulich behandelt."
	sayAskQuestion   = "Bitte stellen Sie Ihre Frage nach dem Signalton. Sagen Sie Auf Wiederhören, um das Gespräch zu beenden."
	sayInternalError = "Interner Fehler. Auf Wiederhören!"
	sayNotUnderstood = "Entschuldigung, ich habe Sie nicht verstanden. Bitte erneut."
	sayUnavailable   = "Unsere KI ist gerade nicht erreichbar."
	sayFarewell      = "Auf Wiederhören und einen schönen Tag!"
)

// Webhook routes and assets the emitted documents point back at.
const (
	gatherAction     = "/gather"
	transcribeAction = "/transcribe"
	beepAsset        = "/assets/beep-125033.mp3"
)

// Orchestrator is the per-call state machine. One instance serves all calls;
// per-call state lives in the session store.
type Orchestrator struct {
	sessions    *state.SessionStore
	archive     *state.Archive
	responder   llm.Provider
	classifier  types.Classifier
	transcriber types.Transcriber
	fetcher     types.AudioFetcher
	notifier    types.Notifier
	trimmer     *prompt.Trimmer

	now func() time.Time
}

// New wires an Orchestrator to its stores and capabilities.
func New(
	sessions *state.SessionStore,
	archive *state.Archive,
	responder llm.Provider,
	classifier types.Classifier,
	transcriber types.Transcriber,
	fetcher types.AudioFetcher,
	notifier types.Notifier,
	trimmer *prompt.Trimmer,
) *Orchestrator {
	return &Orchestrator{
		sessions:    sessions,
		archive:     archive,
		responder:   responder,
		classifier:  classifier,
		transcriber: transcriber,
		fetcher:     fetcher,
		notifier:    notifier,
		trimmer:     trimmer,
		now:         time.Now,
	}
}

// ErrorResponse is the minimal safe document for malformed or unrecoverable
// events: apology and hangup, no session touched.
func ErrorResponse() *twiml.Response {
	return twiml.New().Say(sayInternalError).Hangup()
}

// HandleStart answers the initial voice webhook: it creates the session,
// speaks the greeting, and requests the first round of speech capture.
// A duplicate start for an open call overwrites the prior session.
func (o *Orchestrator) HandleStart(ctx context.Context, callID types.CallID, caller string) *twiml.Response {
	sess := types.NewSession(callID, caller, SystemDirective, o.now())
	o.sessions.Put(sess)

	slog.Info("call started", "call_id", callID, "caller", caller)

	return twiml.New().
		Say(sayRecorded).
		Pause(1).
		Say(sayAskQuestion).
		Play(beepAsset).
		Gather(twiml.Gather{
			Input:               "speech",
			Language:            twiml.Language,
			SpeechModel:         "phone_call_v2",
			Hints:               "Öffnungszeiten, Preise, Termin, Support",
			Timeout:             60,
			SpeechTimeout:       2,
			ConfidenceThreshold: 0.1,
			Action:              gatherAction,
		})
}

// HandleExchange processes one recognized utterance. Depending on the
// transcript it terminates the call, falls back to audio recording, or
// generates a reply and waits for the next turn.
func (o *Orchestrator) HandleExchange(ctx context.Context, callID types.CallID, transcript, confidence string) *twiml.Response {
	sess, ok := o.sessions.Get(callID)
	if !ok {
		slog.Warn("exchange for unknown call", "call_id", callID, "error", types.ErrNoSession)
		return ErrorResponse()
	}

	transcript = strings.TrimSpace(transcript)
	slog.Debug("exchange turn", "call_id", callID, "words", len(strings.Fields(transcript)), "confidence", confidence)

	sess.AppendUser(transcript)
	sess.Annotate(o.classifier.Classify(ctx, transcript))

	if isTermination(transcript) {
		o.finish(sess)
		return twiml.New().Say(sayFarewell).Hangup()
	}

	if len(strings.Fields(transcript)) < minTranscriptWords {
		// Unreliable recognition: capture raw audio for this turn instead.
		return twiml.New().
			Say(sayNotUnderstood).
			Record(twiml.Record{
				MaxLength: 60,
				PlayBeep:  true,
				Trim:      "trim-silence",
				Action:    transcribeAction,
				Method:    "POST",
			})
	}

	reply := o.generateReply(ctx, sess)
	return twiml.New().
		Say(reply).
		Gather(twiml.Gather{
			Input:               "speech",
			Language:            twiml.Language,
			SpeechModel:         "phone_call_v2",
			Timeout:             60,
			SpeechTimeout:       2,
			ConfidenceThreshold: 0.1,
			Action:              gatherAction,
		})
}

// HandleRecording processes the provider's recording-complete webhook for a
// fallback recording. The audio is fetched and transcribed offline; any
// failure degrades to an empty transcript. This path always terminates the
// call: at most one fallback recording per stalled turn.
func (o *Orchestrator) HandleRecording(ctx context.Context, callID types.CallID, recordingURL string) *twiml.Response {
	sess, ok := o.sessions.Get(callID)
	if !ok {
		slog.Warn("recording for unknown call", "call_id", callID, "error", types.ErrNoSession)
		return twiml.New().Hangup()
	}

	transcript := o.transcribeRecording(ctx, callID, recordingURL)
	if transcript != "" {
		sess.AppendUser(transcript)
	}
	sess.Annotate(o.classifier.Classify(ctx, transcript))

	if isTermination(transcript) {
		o.finish(sess)
		return twiml.New().Say(sayFarewell).Hangup()
	}

	reply := o.generateReply(ctx, sess)
	o.finish(sess)
	return twiml.New().Say(reply).Hangup()
}

// transcribeRecording resolves the recording audio and runs offline
// transcription. Both steps fail soft: the result is "" and the turn
// proceeds with an empty transcript.
func (o *Orchestrator) transcribeRecording(ctx context.Context, callID types.CallID, recordingURL string) string {
	audio, err := o.fetcher.Fetch(ctx, recordingURL)
	if err != nil {
		cerr := &types.CapabilityError{Capability: "fetch-recording", Err: err}
		slog.Error("recording fetch failed", "call_id", callID, "error", cerr)
		return ""
	}

	text, err := o.transcriber.Transcribe(ctx, "recording.mp3", audio)
	if err != nil {
		cerr := &types.CapabilityError{Capability: "transcribe", Err: err}
		slog.Error("transcription failed", "call_id", callID, "error", cerr)
		return ""
	}
	return strings.TrimSpace(text)
}

// generateReply invokes the conversational capability over the trimmed
// history. On failure the fixed unavailable message is substituted; either
// way the result is appended as the assistant turn so the next call sees a
// continuous conversation.
func (o *Orchestrator) generateReply(ctx context.Context, sess *types.Session) string {
	messages := o.trimmer.Trim(sess.History())

	reply := sayUnavailable
	resp, err := o.responder.Complete(ctx, messages)
	if err != nil {
		cerr := &types.CapabilityError{Capability: "reply", Err: err}
		slog.Error("reply generation failed", "call_id", sess.ID, "error", cerr)
	} else if text := strings.TrimSpace(resp.Content); text != "" {
		reply = text
	}

	sess.AppendAssistant(reply)
	return reply
}

// finish archives the call record, dispatches the formatted log, and
// destroys the session. Terminal: the call no longer exists afterwards.
func (o *Orchestrator) finish(sess *types.Session) {
	top := sess.DominantTopic()
	if top == "" {
		top = classify.DefaultLabel
	}

	duration := int(math.Round(o.now().Sub(sess.StartedAt).Minutes()))
	rec := types.CallRecord{
		ID:       sess.ID,
		Caller:   sess.Caller,
		Time:     sess.StartedAt,
		Duration: duration,
		Topic:    top,
	}
	o.archive.Append(rec)

	o.notifier.Dispatch(report.Subject(sess.ID, top), report.ConversationLog(sess.History(), top))
	o.sessions.Remove(sess.ID)

	slog.Info("call finished", "call_id", sess.ID, "caller", sess.Caller,
		"duration_min", duration, "topic", top, "turns", len(sess.Topics()))
}

// isTermination reports whether the transcript contains the closing phrase.
func isTermination(transcript string) bool {
	return strings.Contains(strings.ToLower(transcript), terminationPhrase)
}
