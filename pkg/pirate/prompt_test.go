package pirate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "普通输入",
			message: "Hello",
			want:    Persona + " User: Hello Pirate Response:",
		},
		{
			name:    "空输入",
			message: "",
			want:    Persona + " User:  Pirate Response:",
		},
		{
			name:    "特殊字符原样保留",
			message: `say "arr" & <go>`,
			want:    Persona + ` User: say "arr" & <go> Pirate Response:`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPrompt(Persona, tt.message))
		})
	}
}

func TestPersona(t *testing.T) {
	assert.Equal(t,
		"You are a pirate chatbot. Respond only in pirate speak, using pirate slang and nautical terms. Do not reply in normal English.",
		Persona)
}
