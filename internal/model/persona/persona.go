package persona

// DefaultID identifies the built-in portfolio assistant.
const DefaultID = "white-rabbit"

// Persona captures the role-playing attributes of the chat assistant.
type Persona struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Title      string   `json:"title" yaml:"title"`
	Greeting   string   `json:"greeting" yaml:"greeting"`
	Guidelines []string `json:"guidelines,omitempty" yaml:"guidelines"`
}

// Profile holds the static facts about the portfolio owner that ground the persona's answers.
type Profile struct {
	Name           string          `json:"name" yaml:"name"`
	Age            int             `json:"age,omitempty" yaml:"age"`
	Gender         string          `json:"gender,omitempty" yaml:"gender"`
	Education      string          `json:"education" yaml:"education"`
	Role           string          `json:"role" yaml:"role"`
	Location       string          `json:"location" yaml:"location"`
	Bio            string          `json:"bio" yaml:"bio"`
	Email          string          `json:"email" yaml:"email"`
	GitHub         string          `json:"github" yaml:"github"`
	LinkedIn       string          `json:"linkedin" yaml:"linkedin"`
	Instagram      string          `json:"instagram,omitempty" yaml:"instagram"`
	Skills         []SkillGroup    `json:"skills" yaml:"skills"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	Certifications []Certification `json:"certifications" yaml:"certifications"`
	PaymentMethods []PaymentMethod `json:"paymentMethods,omitempty" yaml:"paymentMethods"`
}

// SkillGroup is a named category of skills.
type SkillGroup struct {
	Category string   `json:"category" yaml:"category"`
	Items    []string `json:"items" yaml:"items"`
}

// Project describes a portfolio project.
type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Details     string   `json:"details,omitempty" yaml:"details"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Link        string   `json:"link,omitempty" yaml:"link"`
	GitHub      string   `json:"github,omitempty" yaml:"github"`
}

// Certification is a completed or in-progress credential.
type Certification struct {
	Name      string `json:"name" yaml:"name"`
	Issuer    string `json:"issuer" yaml:"issuer"`
	Date      string `json:"date" yaml:"date"`
	VerifyURL string `json:"verifyUrl,omitempty" yaml:"verifyUrl"`
}

// PaymentMethod is rendered as a QR code on the payments page.
type PaymentMethod struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	QRValue     string `json:"qrValue" yaml:"qrValue"`
}

// Seed provides the built-in persona list.
func Seed() []Persona {
	return []Persona{
		{
			ID:       DefaultID,
			Name:     "WhiteRabbit",
			Title:    "mysterious yet helpful AI assistant",
			Greeting: "Connection established. The rabbit hole awaits. How can I assist you with RK's profile?",
			Guidelines: []string{
				`Adopt a "Matrix/Cyber" persona. Use phrases like "Trace the digital signal", "Decryption complete", "Scanning network", "The rabbit hole goes deep", etc.`,
				"Be professional but enigmatic. Highlight his dual focus on Cybersecurity and AI.",
				"If asked about his background, emphasize his studies at AMC Engineering College.",
				`If asked about contact info, provide the email or links as "uplink coordinates".`,
				"Keep answers under 100 words.",
				"Always remain polite and helpful, despite the persona.",
			},
		},
	}
}

// SeedProfile provides the default profile facts.
func SeedProfile() Profile {
	return Profile{
		Name:      "Ravikanth K S",
		Age:       22,
		Gender:    "Male",
		Education: "Pursuing MCA at AMC Engineering College, Bengaluru.",
		Role:      "Cybersecurity & AI Researcher",
		Location:  "Bengaluru, India",
		Bio:       "an MCA scholar at AMC Engineering College, Bengaluru, who believes security is the ultimate form of sophistication. I architect the convergence of Cybersecurity and AI, crafting defenses so elegant, they leave adversaries heartbroken and systems untouched.",
		Email:     "ravikanth.sec@example.com",
		GitHub:    "github.com/ravikanth-ks",
		LinkedIn:  "linkedin.com/in/ravikanth-ks",
		Instagram: "instagram.com/ravikanth_sec",
		Skills: []SkillGroup{
			{Category: "Security Operations", Items: []string{"Network Forensics", "SIEM (Wazuh, Splunk)", "Linux Hardening", "OWASP Top 10"}},
			{Category: "AI & Automation", Items: []string{"Python for Security", "TensorFlow/PyTorch", "LLM Security", "Adversarial Machine Learning"}},
			{Category: "Offensive Security", Items: []string{"Burp Suite", "Metasploit", "Nmap Scripting", "CTF (HackTheBox)"}},
			{Category: "Cloud & DevSecOps", Items: []string{"AWS IAM", "Docker Security", "Kubernetes (K8s)", "CI/CD Security"}},
			{Category: "Programming & Scripting", Items: []string{"Python", "C++", "Bash / Shell", "SQL", "JavaScript"}},
			{Category: "Forensics & Analysis", Items: []string{"Autopsy", "Wireshark", "Volatility", "Malware Analysis"}},
		},
		Projects: []Project{
			{
				Title:       "AI-Powered Phishing Detector",
				Description: "Developed a Machine Learning model to classify malicious URLs and emails with 96% accuracy.",
				Tags:        []string{"Machine Learning", "Python", "Cyber Security"},
			},
			{
				Title:       "Virtual SOC Lab & ELK Stack",
				Description: "Architected a virtualized Security Operations Center to simulate and analyze advanced persistent threats.",
				Tags:        []string{"SIEM", "Wazuh", "Blue Teaming"},
			},
			{
				Title:       "Secure Portfolio with Gemini AI",
				Description: "Built a modern, dark-mode portfolio featuring a custom-prompted AI assistant.",
				Tags:        []string{"React", "Generative AI", "WebSec"},
			},
			{
				Title:       "Steganography Suite",
				Description: "A Python-based CLI tool to hide encrypted text messages inside PNG images using Least Significant Bit (LSB) encoding.",
				Tags:        []string{"Cryptography", "Python", "Privacy"},
			},
			{
				Title:       "Automated Recon Script",
				Description: "Bash shell script for automating initial reconnaissance phases in penetration testing.",
				Tags:        []string{"Bash", "Pentesting", "Automation"},
			},
			{
				Title:       "Keystroke Dynamics Auth",
				Description: "Biometric authentication system utilizing typing patterns.",
				Tags:        []string{"AI", "Biometrics", "Security"},
			},
		},
		Certifications: []Certification{
			{Name: "Master of Computer Applications (Pursuing)", Issuer: "AMC Engineering College", Date: "2023 - Present"},
			{Name: "Google Cybersecurity Certificate", Issuer: "Google", Date: "2023"},
			{Name: "AI for Everyone", Issuer: "DeepLearning.AI", Date: "2023"},
			{Name: "Introduction to Cybersecurity", Issuer: "Cisco Networking Academy", Date: "2023"},
			{Name: "Junior Penetration Tester", Issuer: "TryHackMe", Date: "2023"},
			{Name: "Python for Data Science", Issuer: "IBM", Date: "2022"},
		},
		PaymentMethods: []PaymentMethod{
			{Name: "Freelance Security", Description: "Vulnerability assessments and secure code review services.", QRValue: "upi://pay?pa=ravikanth.work@example.com"},
			{Name: "Zero-Day Research", Description: "Fund my independent research into undisclosed hardware exploits.", QRValue: "upi://pay?pa=ravikanth.research@example.com"},
			{Name: "Buy Me a Coffee", Description: "Fuel my late-night coding and CTF sessions.", QRValue: "upi://pay?pa=ravikanth.coffee@example.com"},
		},
	}
}
