package launcher

import "github.com/sevigo/vidflow/internal/core"

// CredentialEnv returns the credential entries a worker needs to reach the
// object store on its own. The remote orchestrator backend does not need
// them: its tasks assume a task role. The local runtime backend has no such
// ambient identity, so the dispatcher's own credentials are passed through
// under the SDK's canonical variable names.
func CredentialEnv(region, accessKeyID, secretAccessKey, sessionToken string) []core.EnvVar {
	env := []core.EnvVar{
		{Name: "AWS_REGION", Value: region},
		{Name: "AWS_ACCESS_KEY_ID", Value: accessKeyID},
		{Name: "AWS_SECRET_ACCESS_KEY", Value: secretAccessKey},
	}
	if sessionToken != "" {
		env = append(env, core.EnvVar{Name: "AWS_SESSION_TOKEN", Value: sessionToken})
	}
	return env
}
