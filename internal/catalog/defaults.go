package catalog

import "github.com/good-yellow-bee/cyberguard/internal/models"

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Threats: []models.ThreatTemplate{
			{Type: "Phishing", Target: "Financial Institutions", Region: "North America", Severity: models.SeverityHigh},
			{Type: "Malware", Target: "Healthcare Sector", Region: "Europe", Severity: models.SeverityCritical},
			{Type: "DDoS", Target: "Gaming Servers", Region: "Asia", Severity: models.SeverityMedium},
			{Type: "Ransomware", Target: "Government Agencies", Region: "Global", Severity: models.SeverityCritical},
			{Type: "Zero-Day", Target: "Tech Companies", Region: "Unknown", Severity: models.SeverityHigh},
			{Type: "Adware", Target: "E-commerce", Region: "South America", Severity: models.SeverityLow},
			{Type: "Insider Threat", Target: "Corporate Network", Region: "Europe", Severity: models.SeverityMedium},
			{Type: "SQL Injection", Target: "Online Retailer", Region: "North America", Severity: models.SeverityHigh},
		},
		SyntheticAlert: models.AlertTemplate{
			Severity: models.SeverityCritical,
			Message:  "Unauthorized access attempt from geo-location: St. Petersburg",
		},
		SeedAlerts: []models.AlertEntry{
			{ID: 1, Severity: models.SeverityCritical, Message: "Multiple failed logins for `admin` from IP 192.168.1.101"},
			{ID: 2, Severity: models.SeverityCritical, Message: "Potential ransomware activity detected on `FS-02`"},
			{ID: 3, Severity: models.SeverityHigh, Message: "Unusual network traffic to a known malicious domain"},
			{ID: 4, Severity: models.SeverityHigh, Message: "Suspicious process `svchost.exe` started with high privileges"},
		},
		SeedNotifications: []models.NotificationEntry{
			{ID: 1, Type: models.NotificationCritical, Message: "Ransomware activity detected on `FS-02`.", Timestamp: "2 minutes ago"},
			{ID: 2, Type: models.NotificationHigh, Message: "Multiple failed logins for `admin` from IP 192.168.1.101.", Timestamp: "15 minutes ago"},
			{ID: 3, Type: models.NotificationSystem, Message: "Threat intelligence database updated successfully.", Timestamp: "1 hour ago", IsRead: true},
			{ID: 4, Type: models.NotificationHigh, Message: "Unusual network traffic to a known malicious domain.", Timestamp: "3 hours ago", IsRead: true},
			{ID: 5, Type: models.NotificationSystem, Message: "New firewall rule #772 applied.", Timestamp: "5 hours ago", IsRead: true},
		},
		Charts: Charts{
			Events: []EventPoint{
				{Name: "Mon", Events: 4000, Alerts: 24},
				{Name: "Tue", Events: 3000, Alerts: 13},
				{Name: "Wed", Events: 2000, Alerts: 98},
				{Name: "Thu", Events: 2780, Alerts: 39},
				{Name: "Fri", Events: 1890, Alerts: 48},
				{Name: "Sat", Events: 2390, Alerts: 38},
				{Name: "Sun", Events: 3490, Alerts: 43},
			},
			Anomalies: []AnomalyPoint{
				{Name: "00:00", Anomalies: 5}, {Name: "02:00", Anomalies: 8}, {Name: "04:00", Anomalies: 3},
				{Name: "06:00", Anomalies: 12}, {Name: "08:00", Anomalies: 15}, {Name: "10:00", Anomalies: 7},
				{Name: "12:00", Anomalies: 9}, {Name: "14:00", Anomalies: 18}, {Name: "16:00", Anomalies: 22},
				{Name: "18:00", Anomalies: 14}, {Name: "20:00", Anomalies: 11}, {Name: "22:00", Anomalies: 6},
			},
			Categories: []CategoryCount{
				{Name: "Phishing", Count: 68},
				{Name: "Malware", Count: 45},
				{Name: "DDoS", Count: 22},
				{Name: "Insider", Count: 12},
				{Name: "Ransomware", Count: 31},
			},
		},
	}
}
