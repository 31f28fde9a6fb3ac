// Package site describes the pages of the Jianwai (见外) subtitle
// translation service: where it lives and which elements the workflow
// touches. Labels are the service's own Chinese UI text.
package site

import "codeberg.org/snonux/subtrans/internal/browser"

// DefaultURL is the landing page of the service
const DefaultURL = "https://jianwai.youdao.com/"

// loginFrame holds the login form on the landing page
const loginFrame = "//iframe"

// Login is the embedded login form
type Login struct {
	Email    browser.Target
	Password browser.Target
	Submit   browser.Target
}

// Project covers the project list, the new-project dialog and a project's
// detail view
type Project struct {
	New       browser.Target
	Subtitle  browser.Target
	AddFile   browser.Target
	Submit    browser.Target
	FirstCard browser.Target
	Title     browser.Target
	Export    browser.Target
	Confirm   browser.Target
	Back      browser.Target
	Timestamp browser.Target
	Remove    browser.Target
	// RemoveConfirm is the confirmation button of the delete dialog
	RemoveConfirm browser.Target
}

// Site is everything the workflow needs to know about the service
type Site struct {
	URL     string
	Login   Login
	Project Project
}

// Jianwai returns the element map of the live service
func Jianwai() Site {
	return Site{
		URL: DefaultURL,
		Login: Login{
			Email:    browser.InFrame(loginFrame, browser.Unique("email field", `input[name="email"]`)),
			Password: browser.InFrame(loginFrame, browser.Unique("password field", `input[name="password"]`)),
			Submit:   browser.InFrame(loginFrame, browser.Unique("login button", "text=登 录")),
		},
		Project: Project{
			New:      browser.Unique("new project button", "text=新建项目"),
			Subtitle: browser.Unique("subtitle translation option", "text=字幕翻译"),
			AddFile:  browser.Unique("add subtitle button", "text=添加字幕"),
			// The upload dialog renders two submit labels; the second one
			// is the dialog's own button
			Submit:        browser.Nth("upload dialog submit button", "text=提交", 1),
			FirstCard:     browser.Nth("newest project card", "li.card", 0),
			Title:         browser.Nth("project title", "div.title", 0),
			Export:        browser.Unique("export button", "text=导出"),
			Confirm:       browser.Unique("export dialog confirm button", "#boxBody >> text=确定"),
			Back:          browser.Unique("back to project list", "span.icon.icon-back"),
			Timestamp:     browser.Unique("project timestamp", "span.time"),
			Remove:        browser.Unique("remove project icon", "span.icon.icon-remove"),
			RemoveConfirm: browser.Unique("delete dialog confirm button", "text=确定"),
		},
	}
}

// WithURL returns a copy of s pointing at another deployment
func (s Site) WithURL(url string) Site {
	if url != "" {
		s.URL = url
	}
	return s
}
