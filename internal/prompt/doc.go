// Package prompt asks the user for the values subtrans cannot know up
// front: the subtitle folder and, when no saved session works, the account
// credentials.
package prompt
