package answer

import "context"

const noContextReply = "I could not find anything relevant in the documents."

// EchoAnswerer is an offline answerer that replies with the context it was
// given. It lets the pipeline run without a model.
type EchoAnswerer struct{}

func NewEchoAnswerer() *EchoAnswerer {
	return &EchoAnswerer{}
}

func (EchoAnswerer) Answer(_ context.Context, docContext, _ string) (string, error) {
	if docContext == "" {
		return noContextReply, nil
	}
	return docContext, nil
}

func (EchoAnswerer) ModelName() string {
	return "echo"
}
