// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "testing"

func TestSecretDefault(t *testing.T) {
	orig := loadedSecrets
	loadedSecrets = map[string]string{"lookup-api-key": "lk_from_secret"}
	t.Cleanup(func() { loadedSecrets = orig })

	tests := []struct {
		name     string
		key      string
		explicit string
		want     string
	}{
		{name: "explicit flag value wins over the secret", key: "lookup-api-key", explicit: "lk_from_flag", want: "lk_from_flag"},
		{name: "secret fills in when no flag value is set", key: "lookup-api-key", explicit: "", want: "lk_from_secret"},
		{name: "empty when neither exists", key: "missing-key", explicit: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := secretDefault(tt.key, tt.explicit); got != tt.want {
				t.Errorf("secretDefault(%q, %q) = %q, want %q", tt.key, tt.explicit, got, tt.want)
			}
		})
	}
}
