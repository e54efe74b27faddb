package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightRasterizer renders an HTML template in a headless browser and
// screenshots the card element into PNG bytes.
type PlaywrightRasterizer struct {
	templatesDir string
}

func NewPlaywrightRasterizer(templatesDir string) *PlaywrightRasterizer {
	return &PlaywrightRasterizer{templatesDir: templatesDir}
}

func (p *PlaywrightRasterizer) RenderTemplate(templateAsset string, fields map[string]string) ([]byte, error) {
	templatePath := filepath.Join(p.templatesDir, templateAsset)
	tmpl, err := template.New(filepath.Base(templatePath)).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, fields); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(buf.String(), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	png, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("could not screenshot page: %w", err)
	}
	return png, nil
}
