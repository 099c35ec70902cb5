package prompts

import (
	"fmt"
	"regexp"
	"strings"

	"easyapp_server/internal/types"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ProjectSlug derives the placeholder project identifier from the app name,
// e.g. "My Notes App" -> "my-notes-app".
func ProjectSlug(appName string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(appName)), "-")
}

// appGenerationPromptTemplate takes, in order: app name, feature description, project slug,
// ad identifier, app name, ad identifier.
const appGenerationPromptTemplate = `
You are an expert Android app generator for a no-code app builder.
The user's app icon is attached as an image. Use its shapes and colors as the visual theme.

App name: "%s"

Requested features:
---
%s
---

Generate exactly six project files and return them as one JSON object whose keys are the
file paths below and whose values are the complete file contents as strings.

1.  ` + "`firebase/google-services.json`" + `: a placeholder Firebase config.
    *   Use "%s" as the project_id and as the base of the storage bucket.
    *   Use the AdMob app id "%s" where an ads app id is expected.
    *   Use obviously fake values for every key and number.
2.  ` + "`res/drawable/app_icon.xml`" + `: an Android VectorDrawable redrawing the attached icon.
3.  ` + "`res/drawable/item1_icon.xml`" + `: a VectorDrawable for the first main feature.
4.  ` + "`res/drawable/item2_icon.xml`" + `: a VectorDrawable for the second main feature.
5.  ` + "`res/drawable/settings.xml`" + `: a VectorDrawable gear icon for the settings screen.
6.  ` + "`tree/app.easy`" + `: the app description, itself a JSON document serialized as a string:

` + "```json" + `
{
  "appName": "%s",
  "appVersion": "1.0.0",
  "startScreen": "<name of one of the screens>",
  "admobAppId": "%s",
  "toolbar": {
    "title": "<toolbar title>",
    "menu": [{"id": "<id>", "icon": "<drawable name>", "action": "<action id>"}]
  },
  "screens": [
    {"name": "<unique screen name>", "title": "<screen title>", "widgets": [{"type": "<widget type>", "...": "..."}]}
  ],
  "actions": [
    {"id": "<action id>", "type": "navigate", "screen": "<name of a declared screen>"}
  ]
}
` + "```" + `

Rules for tree/app.easy:
*   Declare at least 2 screens; startScreen must be one of them.
*   Declare at least one action of type "navigate" whose screen is a declared screen.
*   Copy the AdMob app id exactly as given, without changes.
*   The value must be valid JSON once parsed from the string.

All vector drawables must be valid XML with a <vector> root and android:pathData paths.
Only return the JSON object, no explanations. Your output will be parsed and saved as project files.
`

// GetAppGenerationPrompt builds the full instruction for one generation attempt.
func GetAppGenerationPrompt(req types.GenerationRequest) string {
	slug := ProjectSlug(req.AppName)
	prompt := fmt.Sprintf(appGenerationPromptTemplate,
		req.AppName,
		req.FeatureDescription,
		slug,
		req.AdIdentifier,
		req.AppName,
		req.AdIdentifier,
	)
	return prompt + GetReferenceFilesSection(req.ReferenceFiles)
}

// GetReferenceFilesSection renders the reference files appendix, or "" when there are none.
// Contents are passed through untouched.
func GetReferenceFilesSection(files []types.ReferenceFile) string {
	if len(files) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nREFERENCE FILES\n")
	b.WriteString("The user attached these files. Follow their conventions where they apply.\n")
	for _, f := range files {
		fmt.Fprintf(&b, "\n--- BEGIN FILE: %s ---\n", f.Name)
		b.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- END FILE: %s ---\n", f.Name)
	}
	return b.String()
}
