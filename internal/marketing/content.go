// Package marketing holds the static content of the landing page and the
// scroll-spy rule that picks the highlighted navigation entry.
package marketing

const (
	Brand       = "shift*"
	CalendlyURL = "https://calendly.com/abe-sshift/15-minute-meeting-for-shift"
)

type Service struct {
	Icon        string
	Title       string
	Description string
	Features    []string
}

type Technology struct {
	Name string
	Icon string
}

type Step struct {
	Step        string
	Title       string
	Description string
}

type NavLink struct {
	Label   string
	Href    string
	Section string // empty for links that leave the page
}

// Page is everything the landing template renders.
type Page struct {
	Brand        string
	CalendlyURL  string
	Nav          []NavLink
	Services     []Service
	Technologies []Technology
	Process      []Step
	Active       string
	Threshold    int
}

func NewPage() Page {
	return Page{
		Brand:        Brand,
		CalendlyURL:  CalendlyURL,
		Nav:          navigation(),
		Services:     services(),
		Technologies: technologies(),
		Process:      process(),
		Active:       DefaultSection,
		Threshold:    ActivationThreshold,
	}
}

func navigation() []NavLink {
	return []NavLink{
		{Label: "Home", Href: "#home", Section: "home"},
		{Label: "Services", Href: "#services", Section: "services"},
		{Label: "Technologies", Href: "#technologies", Section: "technologies"},
		{Label: "Process", Href: "#process", Section: "process"},
		{Label: "Blog", Href: "/blog"},
		{Label: "Contact", Href: "#contact", Section: "contact"},
	}
}

func services() []Service {
	return []Service{
		{
			Icon:        "rocket",
			Title:       "MVP Development",
			Description: "Launch your startup idea fast with a Minimum Viable Product that validates your concept and attracts investors.",
			Features:    []string{"Rapid prototyping", "Core feature implementation", "User testing ready", "Scalable architecture"},
		},
		{
			Icon:        "monitor",
			Title:       "Custom Software Solutions",
			Description: "Tailored software applications built to solve your specific business challenges and streamline operations.",
			Features:    []string{"Custom web applications", "Desktop software", "API integrations", "Database design"},
		},
		{
			Icon:        "zap",
			Title:       "Automated Workflows",
			Description: "Eliminate repetitive tasks and boost productivity with intelligent automation solutions.",
			Features:    []string{"Process automation", "Data synchronization", "Email automation", "Task scheduling"},
		},
		{
			Icon:        "gamepad",
			Title:       "Game Development",
			Description: "Engaging games and interactive experiences for web, mobile, and desktop platforms.",
			Features:    []string{"Web-based games", "Interactive simulations", "Educational games", "Gamification systems"},
		},
		{
			Icon:        "smartphone",
			Title:       "Mobile Solutions",
			Description: "Cross-platform mobile applications that work seamlessly across iOS and Android devices.",
			Features:    []string{"Progressive Web Apps", "Mobile-responsive design", "Offline functionality", "Push notifications"},
		},
		{
			Icon:        "cloud",
			Title:       "Cloud Integration",
			Description: "Modern cloud-native applications with scalability, security, and performance built-in.",
			Features:    []string{"Cloud deployment", "Microservices architecture", "Real-time features", "Auto-scaling"},
		},
	}
}

func technologies() []Technology {
	return []Technology{
		{Name: "React", Icon: "⚛️"},
		{Name: "TypeScript", Icon: "📘"},
		{Name: "Node.js", Icon: "🟢"},
		{Name: "Python", Icon: "🐍"},
		{Name: "AI/ML", Icon: "🤖"},
		{Name: "Database", Icon: "🗄️"},
		{Name: "Cloud", Icon: "☁️"},
		{Name: "Mobile", Icon: "📱"},
	}
}

func process() []Step {
	return []Step{
		{Step: "01", Title: "Discovery & Planning", Description: "We analyze your requirements, define project scope, and create a detailed roadmap."},
		{Step: "02", Title: "Design & Architecture", Description: "We design the user experience and technical architecture for optimal performance."},
		{Step: "03", Title: "Development & Testing", Description: "We build your software using best practices with continuous testing and feedback."},
		{Step: "04", Title: "Launch & Support", Description: "We deploy your software and provide ongoing maintenance and feature updates."},
	}
}
