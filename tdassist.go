// Package tdassist provides a discovery assistant for web application
// modernization. It crawls an application's page graph through a headless
// browser (optionally after a simple form login), extracts normalized text
// per page, and turns that text into domain and technical questions using an
// external language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/, xai/).
package tdassist
