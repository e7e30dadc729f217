package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)
	require.Equal(t, CommandHelp, parsed.Command)
}

func TestParseCommandWithConfig(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/gestured.yaml", "doctor"})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, parsed.Command)
	require.Equal(t, "/tmp/gestured.yaml", parsed.ConfigPath)
	require.False(t, parsed.ShowHelp)
}

func TestParseRecordTakesLabel(t *testing.T) {
	parsed, err := Parse([]string{"record", "gesture2"})
	require.NoError(t, err)
	require.Equal(t, CommandRecord, parsed.Command)
	require.Equal(t, "gesture2", parsed.Label)
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   string
		wantCmd   Command
		wantLabel string
		wantHelp  bool
		wantPath  string
	}{
		{
			name:     "help short flag",
			args:     []string{"-h"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "help long flag",
			args:     []string{"--help"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "version flag",
			args:     []string{"--version"},
			wantCmd:  CommandVersion,
			wantHelp: false,
		},
		{
			name:    "config after command",
			args:    []string{"status", "--config", "/tmp/cfg"},
			wantErr: "unexpected arguments after command",
		},
		{
			name:    "missing config path",
			args:    []string{"--config"},
			wantErr: "requires a path",
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: "unknown flag",
		},
		{
			name:    "unknown command",
			args:    []string{"bogus"},
			wantErr: "unknown command",
		},
		{
			name:    "extra args after command",
			args:    []string{"doctor", "extra"},
			wantErr: "unexpected arguments",
		},
		{
			name:    "record without label",
			args:    []string{"record"},
			wantErr: "requires a gesture label",
		},
		{
			name:    "record with flag instead of label",
			args:    []string{"record", "--config"},
			wantErr: "requires a gesture label",
		},
		{
			name:    "record with trailing args",
			args:    []string{"record", "gesture1", "extra"},
			wantErr: "unexpected arguments",
		},
		{
			name:      "record with config",
			args:      []string{"--config", "/tmp/cfg", "record", "gesture3"},
			wantCmd:   CommandRecord,
			wantLabel: "gesture3",
			wantHelp:  false,
			wantPath:  "/tmp/cfg",
		},
		{
			name:     "valid disconnect command",
			args:     []string{"disconnect"},
			wantCmd:  CommandDisconnect,
			wantHelp: false,
		},
		{
			name:     "valid train with config",
			args:     []string{"--config", "/tmp/cfg", "train"},
			wantCmd:  CommandTrain,
			wantHelp: false,
			wantPath: "/tmp/cfg",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantLabel, parsed.Label)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			require.Equal(t, tc.wantPath, parsed.ConfigPath)
		})
	}
}

func TestHelpTextIncludesCoreCommands(t *testing.T) {
	text := HelpText("gestured")
	require.Contains(t, text, "run")
	require.Contains(t, text, "record LABEL")
	require.Contains(t, text, "train")
	require.Contains(t, text, "doctor")
	require.Contains(t, text, "--config PATH")
}
