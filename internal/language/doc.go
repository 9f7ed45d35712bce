// Package language maps the two-digit hex language code stored in the GSI
// block of an EBU subtitle file to ISO 639 codes and display names.
//
// Code "00" means the language was not set and maps to "und".
package language
