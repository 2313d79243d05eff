// internal/twiml/twiml.go

// Package twiml builds the XML call-control documents the telephony provider
// expects as the synchronous answer to every voice webhook.
package twiml

import "encoding/xml"

// Voice and language used for every spoken utterance.
const (
	Voice    = "Polly.Marlene"
	Language = "de-DE"
)

// Say speaks text to the caller.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr"`
	Language string   `xml:"language,attr"`
	Text     string   `xml:",chardata"`
}

// Pause waits silently for the given number of seconds.
type Pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

// Play plays an audio asset to the caller.
type Play struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

// Gather requests live speech recognition and posts the result to Action.
type Gather struct {
	XMLName             xml.Name `xml:"Gather"`
	Input               string   `xml:"input,attr"`
	Language            string   `xml:"language,attr"`
	SpeechModel         string   `xml:"speechModel,attr,omitempty"`
	Hints               string   `xml:"hints,attr,omitempty"`
	Timeout             int      `xml:"timeout,attr"`
	SpeechTimeout       int      `xml:"speechTimeout,attr"`
	ConfidenceThreshold float64  `xml:"confidenceThreshold,attr,omitempty"`
	Action              string   `xml:"action,attr"`
}

// Record captures raw audio and posts the recording reference to Action.
type Record struct {
	XMLName   xml.Name `xml:"Record"`
	MaxLength int      `xml:"maxLength,attr"`
	PlayBeep  bool     `xml:"playBeep,attr"`
	Trim      string   `xml:"trim,attr,omitempty"`
	Action    string   `xml:"action,attr"`
	Method    string   `xml:"method,attr"`
}

// Hangup ends the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Response is one call-control document. Verbs execute in order.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// New creates an empty Response.
func New() *Response {
	return &Response{}
}

// Say appends a spoken utterance in the configured voice.
func (r *Response) Say(text string) *Response {
	r.Verbs = append(r.Verbs, Say{Voice: Voice, Language: Language, Text: text})
	return r
}

// Pause appends a silent pause of the given seconds.
func (r *Response) Pause(seconds int) *Response {
	r.Verbs = append(r.Verbs, Pause{Length: seconds})
	return r
}

// Play appends an audio asset.
func (r *Response) Play(url string) *Response {
	r.Verbs = append(r.Verbs, Play{URL: url})
	return r
}

// Gather appends a speech-capture request.
func (r *Response) Gather(g Gather) *Response {
	r.Verbs = append(r.Verbs, g)
	return r
}

// Record appends an audio-recording request.
func (r *Response) Record(rec Record) *Response {
	r.Verbs = append(r.Verbs, rec)
	return r
}

// Hangup appends a hangup, ending the call.
func (r *Response) Hangup() *Response {
	r.Verbs = append(r.Verbs, Hangup{})
	return r
}

// Render serializes the document including the XML header.
func (r *Response) Render() ([]byte, error) {
	body, err := xml.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
