package portfolio

import "github.com/google/uuid"

var seedNamespace = uuid.MustParse("6f1c3a52-4d0e-4b7a-9a51-2f9b0b7e8c11")

// SeedProjectID derives a stable project id from its title so the seed record
// keeps the same identities across restarts.
func SeedProjectID(title string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(title))
}

const (
	seedStorageBase = "https://miyqdfjfphrbusfnijur.supabase.co/storage/v1/object/public"
)

// Seed returns a fresh copy of the compiled-in profile.
func Seed() Profile {
	p := Profile{
		Name:         "Rifath Ahamed",
		Title:        "Graduate – IT & Operations | MIS, HR & Financial Support | Web & Business Systems Development",
		Summary:      "Results-driven IT & Operations specialist with a BSc in Management and Information Technology. I bridge the gap between complex technical infrastructure and strategic management to optimize organizational workflows. Expert in building bespoke MIS solutions, automating administrative processes, and coordinating large-scale logistics and construction projects.",
		ProfileImage: seedStorageBase + "/portfolio-images/profile%20image.png",
		ResumeURL:    seedStorageBase + "/portfolio-cv/Rifath%20Ahamed%20CV.pdf",
		Contact: ContactInfo{
			Phone:        "075 092 7652",
			Email:        "arifath98@gmail.com",
			Location:     "Trincomalee, Sri Lanka",
			LinkedIn:     "rifath-ahamed-46b552326",
			LinkedInURL:  "https://www.linkedin.com/in/rifath-ahamed-46b552326",
			GitHubURL:    "https://github.com/",
			InstagramURL: "https://instagram.com/",
			TwitterURL:   "https://twitter.com/",
		},
		CoreCompetencies: []string{
			"Project Management & Coordination",
			"Management Information Systems (MIS)",
			"Full-Stack Web Development",
			"Logistics & Transport Optimization",
			"Database Architecture (MySQL)",
			"Technical Support & Troubleshooting",
			"Strategic Resource Planning",
			"Business Process Automation",
		},
		Education: []Education{
			{
				Degree:      "Bachelor of Science - BS, Management and Information Technology",
				Institution: "South Eastern University of Sri Lanka",
				Period:      "August 2022 – December 2025",
				Details: []string{
					"Specializing in the intersection of enterprise management and technical implementation.",
					"Dean's List candidate focusing on system analysis and operational efficiency.",
				},
			},
			{
				Degree:      "Association of Accounting Technicians (AAT Sri Lanka)",
				Institution: "Zip Campus, Sri Lanka",
				Period:      "In Progress",
				Details:     []string{"Focusing on financial management systems and audit support."},
			},
		},
		Experience: []Experience{
			{
				Role:     "Transport Management Intern",
				Company:  "Jay Jay Mills Lanka (Pvt) Ltd – Trincomalee",
				Period:   "May 2025 – Present",
				Location: "Kappalthurai Industrial Estate, Trincomalee",
				Description: []string{
					"Optimizing daily transport logistics for a workforce of 1000+, reducing routing inefficiencies by 15%.",
					"Managing real-time vehicle performance tracking and driver safety compliance databases.",
					"Coordinating with HR to ensure seamless shift-based transportation planning across multiple industrial sites.",
					"Implementing digital scheduling tools to replace manual paper-based tracking systems.",
				},
			},
			{
				Role:    "Student Intern",
				Company: "South Eastern University of Sri Lanka",
				Period:  "February 2023 – December 2024",
				Description: []string{
					"Supported university-wide IT infrastructure, handling troubleshooting for over 200 workstations.",
					"Developed internal data entry tools that improved departmental record-keeping speed by 30%.",
					"Assisted in the maintenance of administrative databases and student portal synchronization.",
				},
			},
			{
				Role:     "Construction Project Coordinator",
				Company:  "Grace Construction Trincomalee",
				Period:   "August 2019 – January 2021",
				Location: "Trincomalee, Sri Lanka",
				Description: []string{
					"Managed project timelines and resource allocation for medium-scale civil construction projects.",
					"Liaised between on-site engineers and corporate stakeholders to ensure budget adherence.",
					"Oversaw procurement logistics for critical construction materials, minimizing on-site downtime.",
				},
			},
		},
		Projects: []Project{
			seedProject(
				"Thampalahamam Pradeshiya Sabha Portal",
				[]string{"PHP", "MySQL", "JavaScript", "Tailwind CSS"},
				[]string{
					"A comprehensive digital governance portal designed to streamline public service delivery for the Thampalahamam region.",
					"Features include public notice boards, automated service requests, and an administrative back-end for local government staff.",
				},
				"https://thps.my-board.org/thps/",
				"https://images.unsplash.com/photo-1517048676732-d65bc937f952?q=80&w=1470&auto=format&fit=crop",
			),
			seedProject(
				"Home Repair & Renovation Platform",
				[]string{"PHP", "HTML5", "CSS3", "MySQL"},
				[]string{
					"End-to-end service management system allowing homeowners to book, track, and review renovation projects.",
					"Integrated a project bidding system for contractors and a secure client communication dashboard.",
				},
				"https://webbasedrenovation.infinityfree.me/index.php",
				"https://images.unsplash.com/photo-1581291518633-83b4ebd1d83e?q=80&w=1470&auto=format&fit=crop",
			),
			seedProject(
				"FMC GPA Calculator",
				[]string{"React", "TypeScript", "Tailwind CSS"},
				[]string{
					"A precision tool for university students to track academic progress based on SEUSL specific grading weights.",
					"Developed to reduce manual calculation errors and provide visual progress tracking for degree completion.",
				},
				"https://fmcs-gpa.vercel.app/",
				"https://images.unsplash.com/photo-1543269865-cbf427effbad?q=80&w=1470&auto=format&fit=crop",
			),
			seedProject(
				"AI Vital - Resource Hub",
				[]string{"Next.js", "Vercel", "API Integration"},
				[]string{
					"A curated ecosystem for artificial intelligence tools, providing categorized access to cutting-edge AI models.",
					"Designed with a focus on high-performance search and responsive discovery for technical professionals.",
				},
				"https://ai-vital-zeta.vercel.app/",
				seedStorageBase+"/portfolio-images/ai.png",
			),
		},
		Documents: []Document{},
		Skills: []SkillCategory{
			{
				Category: "IT & Development",
				Items:    []string{"PHP / MySQL / SQL", "React / JavaScript / TS", "HTML5 / Tailwind CSS", "C# / Java Programming", "System Analysis & Design"},
			},
			{
				Category: "Operations & Management",
				Items:    []string{"Logistics Coordination", "Project Lifecycle Management", "Transport Scheduling", "Resource Optimization", "HRIS & MIS Administration"},
			},
			{
				Category: "Professional Tools",
				Items:    []string{"Visual Studio / VS Code", "MS Project / MS Office Suite", "Supabase / Firebase", "Git / GitHub", "AutoCAD (Basics)"},
			},
		},
		Languages: []string{"English (Professional)", "Tamil (Native)", "Sinhala (Intermediate)"},
	}
	return p
}

func seedProject(title string, tech, desc []string, demo, image string) Project {
	return Project{
		ID:           SeedProjectID(title),
		Title:        title,
		Technologies: tech,
		Description:  desc,
		DemoURL:      demo,
		GitHubURL:    "#",
		Image:        image,
	}
}
