package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeInput()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaultBatchWorkers
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeInput() {
	c.Input.CodePage = lowerOr(c.Input.CodePage, defaultCodePage)
	c.Input.FrameRate = lowerOr(c.Input.FrameRate, defaultSourceRate)
	c.Input.TimecodeEncoding = lowerOr(c.Input.TimecodeEncoding, defaultTimecodeEncoding)
	c.Input.Layout = lowerOr(c.Input.Layout, defaultLayout)
}

func (c *Config) normalizeOutput() error {
	c.Output.FrameRate = lowerOr(c.Output.FrameRate, defaultTargetRate)
	c.Output.SeparatorStyle = lowerOr(c.Output.SeparatorStyle, defaultSeparatorStyle)
	c.Output.Alignment = lowerOr(c.Output.Alignment, defaultAlignment)
	c.Output.StartOffset = strings.TrimSpace(c.Output.StartOffset)
	if c.Output.StartOffset == "" {
		c.Output.StartOffset = defaultStartOffset
	}
	if lowered := strings.ToLower(c.Output.StartOffset); lowered == autoValue || lowered == defaultStartOffset {
		c.Output.StartOffset = lowered
	}
	if c.Output.MaxCharsPerLine == 0 {
		c.Output.MaxCharsPerLine = defaultMaxChars
	}
	c.Output.Extension = strings.TrimSpace(c.Output.Extension)
	if c.Output.Extension == "" {
		c.Output.Extension = defaultExtension
	}
	if !strings.HasPrefix(c.Output.Extension, ".") {
		c.Output.Extension = "." + c.Output.Extension
	}
	if table := strings.TrimSpace(c.Output.CodeTable); table != "" {
		expanded, err := expandPath(table)
		if err != nil {
			return fmt.Errorf("output.code_table: %w", err)
		}
		c.Output.CodeTable = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	c.Logging.Level = lowerOr(c.Logging.Level, defaultLogLevel)
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func lowerOr(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
